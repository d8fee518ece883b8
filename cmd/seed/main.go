package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"todo/internal/api/services"
	"todo/internal/config"
	"todo/internal/repository"
)

var sampleTodos = []struct {
	title     string
	completed bool
}{
	{"Buy milk", false},
	{"Walk the dog", true},
	{"Read a chapter of a book", false},
	{"Pay the electricity bill", true},
	{"Call grandma", false},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, relying on environment")
	}

	truncate := flag.Bool("truncate", false, "Remove all existing todos before seeding")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := repository.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	if *truncate {
		log.Println("Truncating todos...")
		if _, err := db.DB().Exec(`DELETE FROM todos`); err != nil {
			log.Fatalf("Failed to truncate todos: %v", err)
		}
	}

	service := services.NewTodoService(repository.NewTodoRepository(db.DB()), services.SoftDelete, nil, nil)
	ctx := context.Background()

	log.Println("Starting seed process...")
	for _, sample := range sampleTodos {
		todo, err := service.Create(ctx, services.CreateTodoInput{Title: sample.title})
		if err != nil {
			log.Printf("Failed to seed %q: %v", sample.title, err)
			continue
		}
		if sample.completed {
			if _, err := service.Update(ctx, todo.ID, services.UpdateTodoInput{Completed: true}); err != nil {
				log.Printf("Failed to complete %q: %v", sample.title, err)
			}
		}
	}
	log.Println("Seed process completed!")
}
