package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE namespace = ?`, namespace).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", namespace, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, namespace string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, namespace, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", namespace, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, namespace string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, namespace)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", namespace, err)
	}
	return nil
}
