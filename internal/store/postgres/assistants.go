package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

type AssistantStore struct {
	db *sql.DB
}

func NewAssistantStore(db *sql.DB) *AssistantStore {
	return &AssistantStore{db: db}
}

func (s *AssistantStore) Create(ctx context.Context, a domain.Assistant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assistants (username, password, created_at) VALUES ($1, $2, $3)
	`, a.Username, a.Password, a.CreatedAt)
	if err != nil {
		if mapped := mapInsertErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create assistant: %w", err)
	}
	return nil
}

func (s *AssistantStore) FindByUsername(ctx context.Context, username string) (domain.Assistant, error) {
	var a domain.Assistant
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password, created_at FROM assistants WHERE username = $1
	`, username).Scan(&a.Username, &a.Password, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assistant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Assistant{}, fmt.Errorf("find assistant: %w", err)
	}
	return a, nil
}

func (s *AssistantStore) Authenticate(ctx context.Context, username, password string) (domain.Assistant, error) {
	var a domain.Assistant
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password, created_at FROM assistants
		WHERE username = $1 AND password = $2
	`, username, password).Scan(&a.Username, &a.Password, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assistant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Assistant{}, fmt.Errorf("authenticate assistant: %w", err)
	}
	return a, nil
}

func (s *AssistantStore) List(ctx context.Context) ([]domain.Assistant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, created_at FROM assistants ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	defer rows.Close()

	var all []domain.Assistant
	for rows.Next() {
		var a domain.Assistant
		if err := rows.Scan(&a.Username, &a.Password, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assistant: %w", err)
		}
		all = append(all, a)
	}
	return all, rows.Err()
}

func (s *AssistantStore) UpdatePassword(ctx context.Context, username, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE assistants SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return fmt.Errorf("update assistant password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assistant password: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *AssistantStore) Delete(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assistants WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete assistant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assistant: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *AssistantStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM assistants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assistants: %w", err)
	}
	return n, nil
}
