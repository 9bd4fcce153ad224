package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/ap-prep/internal/infra/postgres"
)

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ProgressBlobRepository stores progress blobs in the progress_blobs table.
// Each key holds the raw JSON document exactly as the progress service wrote it.
type ProgressBlobRepository struct {
	db postgres.DBTX
	tx TxRunner
}

// NewProgressBlobRepository creates a repository reading through db and
// modifying blobs inside transactions started by tx.
func NewProgressBlobRepository(db postgres.DBTX, tx TxRunner) *ProgressBlobRepository {
	return &ProgressBlobRepository{db: db, tx: tx}
}

// EnsureSchema creates the progress_blobs table when it is missing.
// It mirrors migrations/0001_progress_blobs.up.sql.
func (r *ProgressBlobRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS progress_blobs (
			key        TEXT PRIMARY KEY,
			value      BYTEA,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure progress schema: %w", err)
	}

	return nil
}

// Load returns the blob stored under key, or nil if there is none.
func (r *ProgressBlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM progress_blobs
		WHERE key = $1
	`

	var value []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load progress blob: %w", err)
	}

	return value, nil
}

// Modify locks the row for key, passes its value to fn and stores the result
// in the same transaction. Concurrent writers for one key are serialized.
func (r *ProgressBlobRepository) Modify(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ensure := `
			INSERT INTO progress_blobs (key, value, updated_at)
			VALUES ($1, NULL, NOW())
			ON CONFLICT (key) DO NOTHING
		`
		if _, err := tx.Exec(ctx, ensure, key); err != nil {
			return fmt.Errorf("ensure progress blob: %w", err)
		}

		lock := `
			SELECT value
			FROM progress_blobs
			WHERE key = $1
			FOR UPDATE
		`
		var current []byte
		if err := tx.QueryRow(ctx, lock, key).Scan(&current); err != nil {
			return fmt.Errorf("lock progress blob: %w", err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		update := `
			UPDATE progress_blobs
			SET value = $2, updated_at = NOW()
			WHERE key = $1
		`
		if _, err = tx.Exec(ctx, update, key, next); err != nil {
			return fmt.Errorf("update progress blob: %w", err)
		}

		return nil
	})
}

// Delete removes the blob stored under key.
func (r *ProgressBlobRepository) Delete(ctx context.Context, key string) error {
	query := `
		DELETE FROM progress_blobs
		WHERE key = $1
	`

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("delete progress blob: %w", err)
	}

	return nil
}
