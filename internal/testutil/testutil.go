package testutil

import (
	"path/filepath"
	"testing"

	"todo/internal/config"
	"todo/internal/repository"
)

// TestConfig points at a fresh sqlite file inside the test's temp dir.
func TestConfig(t *testing.T, policy string) *config.Config {
	t.Helper()
	return &config.Config{
		Env:          "test",
		HTTPAddr:     ":0",
		DeletePolicy: policy,
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "todo.db"),
		},
		Telemetry: config.TelemetryConfig{ServiceName: "todo-test"},
	}
}

// SetupTestDB opens and migrates a throwaway database, closed when the test ends.
func SetupTestDB(t *testing.T) *repository.Database {
	t.Helper()
	db, err := repository.New(TestConfig(t, config.DeletePolicySoft))
	if err != nil {
		t.Fatalf("setup test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

