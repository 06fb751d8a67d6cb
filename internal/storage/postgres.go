// Package storage provides the persistence backends for dedup records.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"newsbrief/internal/dedupe"
)

// Postgres stores delivered-item records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

var _ dedupe.Store = (*Postgres)(nil)

// NewPostgres connects to the database and ensures the schema exists.
func NewPostgres(connectionString string) (*Postgres, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return p, nil
}

func (p *Postgres) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS delivered_news (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		publish_time TEXT NOT NULL,
		category VARCHAR(50),
		source VARCHAR(100),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (title, publish_time)
	);

	CREATE INDEX IF NOT EXISTS idx_delivered_news_created_at ON delivered_news(created_at);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Exists reports whether an item with this natural key was delivered before.
func (p *Postgres) Exists(ctx context.Context, title, publishTime string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM delivered_news WHERE title = $1 AND publish_time = $2`
	if err := p.db.QueryRowContext(ctx, query, title, publishTime).Scan(&count); err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	return count > 0, nil
}

// Insert records a delivered item. Conflicting natural keys are ignored so
// concurrent topic pipelines cannot race into an error.
func (p *Postgres) Insert(ctx context.Context, rec dedupe.Record) error {
	query := `
		INSERT INTO delivered_news (title, publish_time, category, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title, publish_time) DO NOTHING
	`
	if _, err := p.db.ExecContext(ctx, query, rec.Title, rec.PublishTime, rec.Category, rec.Source); err != nil {
		return fmt.Errorf("dedup insert: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
