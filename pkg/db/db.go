package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed base.sql
var baseSQL string

// Database is the local key-value storage for saved application state. Each key holds one
// opaque record; writes replace the whole record (last write wins).
type Database struct {
	conn *sql.DB
}

// NewDatabase connects to the sqlite database at the given filename and initializes the
// structure if not present.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	database := Database{conn: conn}

	err = database.initialize(ctx)
	if err != nil {
		conn.Close()

		return nil, err
	}

	return &database, nil
}

func (d *Database) initialize(ctx context.Context) error {
	// run idempotent setup sql to create empty tables if they don't exist
	if _, err := d.conn.ExecContext(ctx, baseSQL); err != nil {
		return fmt.Errorf("error running base sql: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Get returns the record stored under key. The bool is false if there is no record.
func (d *Database) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := d.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("error loading record '%s': %w", key, err)
	}

	return value, true, nil
}

// Put stores value under key, replacing any existing record.
func (d *Database) Put(ctx context.Context, key string, value []byte) error {
	_, err := d.conn.ExecContext(
		ctx,
		`INSERT INTO kv (key, value, updated_datetime) VALUES ($1, $2, $3)
		     ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_datetime = excluded.updated_datetime`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error saving record '%s': %w", key, err)
	}

	return nil
}

// Delete removes the record stored under key, if any.
func (d *Database) Delete(ctx context.Context, key string) error {
	if _, err := d.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("error deleting record '%s': %w", key, err)
	}

	return nil
}
