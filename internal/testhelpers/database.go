package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver
)

// TestDSNEnv names the variable holding a disposable PostgreSQL DSN.
const TestDSNEnv = "CONTENT_FEED_TEST_DSN"

// OpenTestDB connects to the database named by CONTENT_FEED_TEST_DSN, applies
// the schema and empties the items table. The test is skipped in -short mode,
// when the variable is unset, or when the server cannot be reached.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		t.Skipf("test database unreachable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = RunMigrations(ctx, db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err = db.ExecContext(ctx, `TRUNCATE content_feed_items RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return db
}

// RunMigrations executes every SQL file of the migrations directory in name order.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(filename), "..", "..", "migrations")

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, file := range files {
		sqlBytes, readErr := os.ReadFile(file)
		if readErr != nil {
			return fmt.Errorf("read migration file: %w", readErr)
		}
		if _, execErr := db.ExecContext(ctx, string(sqlBytes)); execErr != nil {
			return fmt.Errorf("execute %s: %w", filepath.Base(file), execErr)
		}
	}
	return nil
}
