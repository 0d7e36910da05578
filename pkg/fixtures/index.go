package fixtures

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const indexSchemaVersion = 1

// openIndex creates the in-memory fixture index. The pool holds a single
// connection because every new connection to :memory: is a new database.
func openIndex(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture index: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := migrateIndex(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize fixture index: %w", err)
	}
	return db, nil
}

func migrateIndex(ctx context.Context, db *sql.DB) error {
	migrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&current); err != nil {
		return fmt.Errorf("failed to check migration version: %w", err)
	}

	if current < 1 {
		if err := applyIndexMigration1(ctx, db); err != nil {
			return fmt.Errorf("failed to apply migration 1: %w", err)
		}
	}
	return nil
}

func applyIndexMigration1(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE fixtures (
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL,
			mod_time TIMESTAMP NOT NULL,
			PRIMARY KEY (kind, name)
		);`,
		`CREATE TABLE node_forms (
			op TEXT PRIMARY KEY,
			form TEXT NOT NULL
		);`,
		"CREATE INDEX idx_fixtures_kind ON fixtures(kind, name);",
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create fixture index schema: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (version) VALUES (?)", indexSchemaVersion); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
