package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite backed KeyValueStore for single-node deployments.
type SqliteStore struct {
	DB *sql.DB
}

func NewSqliteStore(db *sql.DB) *SqliteStore {
	return &SqliteStore{DB: db}
}

func (s *SqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("sqlite kv store: db is nil")
	}

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv_store key=%q: %w", key, err)
	}

	return value, true, nil
}

func (s *SqliteStore) Set(ctx context.Context, key string, value string) error {
	if s.DB == nil {
		return errors.New("sqlite kv store: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO kv_store (
		key,
		value,
		updated_at
	)
	VALUES (?, ?, CURRENT_TIMESTAMP);
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert kv_store key=%q: %w", key, err)
	}

	return nil
}

func (s *SqliteStore) Remove(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("sqlite kv store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete kv_store key=%q: %w", key, err)
	}

	return nil
}
