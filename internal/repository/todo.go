package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"todo/internal/domain"
)

var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = `id, title, completed, created_at, deleted_at`

type TodoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := r.db.Rebind(`
		INSERT INTO todos (title, completed, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	return r.db.QueryRowxContext(ctx, query, todo.Title, todo.Completed, todo.CreatedAt).Scan(&todo.ID)
}

// FindByID returns the row whatever its deleted_at value.
func (r *TodoRepository) FindByID(ctx context.Context, id int64) (*domain.Todo, error) {
	query := r.db.Rebind(`SELECT ` + todoColumns + ` FROM todos WHERE id = ?`)

	todo := &domain.Todo{}
	err := r.db.GetContext(ctx, todo, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// FindActive returns every row without a deletion stamp, newest first.
func (r *TodoRepository) FindActive(ctx context.Context) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE deleted_at IS NULL
		ORDER BY id DESC
	`

	todos := []*domain.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query); err != nil {
		return nil, err
	}
	return todos, nil
}

// Update sets completed and, when title is non-nil, the title of an active row.
func (r *TodoRepository) Update(ctx context.Context, id int64, title *string, completed bool) error {
	query := r.db.Rebind(`
		UPDATE todos
		SET title = COALESCE(?, title),
		    completed = ?
		WHERE id = ? AND deleted_at IS NULL
	`)

	var titleArg interface{}
	if title != nil {
		titleArg = *title
	}

	res, err := r.db.ExecContext(ctx, query, titleArg, completed, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *TodoRepository) SoftDelete(ctx context.Context, id int64, deletedAt string) error {
	query := r.db.Rebind(`UPDATE todos SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`)

	res, err := r.db.ExecContext(ctx, query, deletedAt, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *TodoRepository) HardDelete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM todos WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}
