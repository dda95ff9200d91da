package clientstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStorage хранит состояние профиля в таблице client_state.
// Позволяет нескольким процессам одного профиля видеть общую сессию.
type PostgresStorage struct {
	db      *sqlx.DB
	profile string
}

func NewPostgresStorage(db *sqlx.DB, profile string) *PostgresStorage {
	return &PostgresStorage{db: db, profile: profile}
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM client_state WHERE profile = $1 AND key = $2`
	err := s.db.GetContext(ctx, &value, query, s.profile, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("clientstate: чтение ключа %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO client_state (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, s.profile, key, value); err != nil {
		return fmt.Errorf("clientstate: запись ключа %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM client_state WHERE profile = $1 AND key = $2`
	if _, err := s.db.ExecContext(ctx, query, s.profile, key); err != nil {
		return fmt.Errorf("clientstate: удаление ключа %s: %w", key, err)
	}
	return nil
}
