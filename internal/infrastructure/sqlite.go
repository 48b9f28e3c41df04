package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteClient owns the database handle for the user registry.
type SQLiteClient struct {
	DB *sql.DB
}

func NewSQLiteClient(path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	client := &SQLiteClient{DB: db}
	if err := client.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return client, nil
}

func (c *SQLiteClient) Migrate() error {
	ctx := context.Background()

	_, err := c.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id          INTEGER PRIMARY KEY,
			plan             TEXT NOT NULL,
			tokens_remaining INTEGER NOT NULL,
			last_reset       TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	return c.DB.Close()
}
