package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"traffic-route-service/internal/platform/obs"
)

// SQLStore is a Postgres-backed KeyValueStore (pgx stdlib driver).
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.sql.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("sql kv store: db is nil")
	}

	var value string
	err = s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv_store key=%q: %w", key, err)
	}

	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value string) error {
	if s.DB == nil {
		return errors.New("sql kv store: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at;
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert kv_store key=%q: %w", key, err)
	}

	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if s.DB == nil {
		return errors.New("sql kv store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("delete kv_store key=%q: %w", key, err)
	}

	return nil
}
