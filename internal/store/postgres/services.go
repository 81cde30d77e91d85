package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

type ServiceStore struct {
	db *sql.DB
}

func NewServiceStore(db *sql.DB) *ServiceStore {
	return &ServiceStore{db: db}
}

func (s *ServiceStore) Create(ctx context.Context, svc domain.Service) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO services (name, created_at) VALUES ($1, $2)
	`, svc.Name, svc.CreatedAt)
	if err != nil {
		if mapped := mapInsertErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

func (s *ServiceStore) Find(ctx context.Context, name string) (domain.Service, error) {
	var svc domain.Service
	err := s.db.QueryRowContext(ctx, `
		SELECT name, created_at FROM services WHERE name = $1
	`, name).Scan(&svc.Name, &svc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Service{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Service{}, fmt.Errorf("find service: %w", err)
	}
	return svc, nil
}

func (s *ServiceStore) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, created_at FROM services ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var all []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.Name, &svc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		all = append(all, svc)
	}
	return all, rows.Err()
}

// Delete removes the service row; the ON DELETE CASCADE constraint takes its
// requests down with it.
func (s *ServiceStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *ServiceStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM services`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return n, nil
}
