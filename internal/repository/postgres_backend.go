package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PostgresBackend stores the whole document as one JSONB row keyed by name.
type PostgresBackend struct {
	db   *sql.DB
	name string
}

func NewPostgresBackend(db *sql.DB, name string) *PostgresBackend {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	return &PostgresBackend{db: db, name: name}
}

func (b *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, `
		SELECT body::text
		FROM pos_documents
		WHERE name = $1
	`, b.name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("select document %q: %w", b.name, err)
	}
	return body, nil
}

func (b *PostgresBackend) Write(ctx context.Context, body []byte) error {
	if _, err := b.db.ExecContext(ctx, `
		INSERT INTO pos_documents (name, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name)
		DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = NOW()
	`, b.name, string(body)); err != nil {
		return fmt.Errorf("upsert document %q: %w", b.name, err)
	}
	return nil
}
