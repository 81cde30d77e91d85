package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

type RequestStore struct {
	db *sql.DB
}

func NewRequestStore(db *sql.DB) *RequestStore {
	return &RequestStore{db: db}
}

func (s *RequestStore) Create(ctx context.Context, r domain.ServiceRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_requests (id, passport, service_name, requester, requested_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.ID, r.Passport, r.ServiceName, r.Requester, r.RequestedAt)
	if err != nil {
		if mapped := mapInsertErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create service request: %w", err)
	}
	return nil
}

func (s *RequestStore) Exists(ctx context.Context, passport, serviceName string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM service_requests WHERE passport = $1 AND service_name = $2)
	`, passport, serviceName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check service request: %w", err)
	}
	return exists, nil
}

func (s *RequestStore) Update(ctx context.Context, r domain.ServiceRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE service_requests SET requester = $3, requested_at = $4
		WHERE passport = $1 AND service_name = $2
	`, r.Passport, r.ServiceName, r.Requester, r.RequestedAt)
	if err != nil {
		return fmt.Errorf("update service request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update service request: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *RequestStore) List(ctx context.Context) ([]domain.ServiceRequest, error) {
	return s.query(ctx, `
		SELECT id, passport, service_name, requester, requested_at
		FROM service_requests ORDER BY requested_at, passport
	`)
}

func (s *RequestStore) ListByService(ctx context.Context, serviceName string) ([]domain.ServiceRequest, error) {
	return s.query(ctx, `
		SELECT id, passport, service_name, requester, requested_at
		FROM service_requests WHERE service_name = $1 ORDER BY requested_at, passport
	`, serviceName)
}

func (s *RequestStore) query(ctx context.Context, q string, args ...any) ([]domain.ServiceRequest, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	defer rows.Close()

	var all []domain.ServiceRequest
	for rows.Next() {
		var r domain.ServiceRequest
		if err := rows.Scan(&r.ID, &r.Passport, &r.ServiceName, &r.Requester, &r.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan service request: %w", err)
		}
		all = append(all, r)
	}
	return all, rows.Err()
}

func (s *RequestStore) DeleteByService(ctx context.Context, serviceName string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM service_requests WHERE service_name = $1`, serviceName); err != nil {
		return fmt.Errorf("delete requests by service: %w", err)
	}
	return nil
}

func (s *RequestStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM service_requests`); err != nil {
		return fmt.Errorf("delete service requests: %w", err)
	}
	return nil
}

func (s *RequestStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM service_requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count service requests: %w", err)
	}
	return n, nil
}

func (s *RequestStore) CountByService(ctx context.Context) (map[string]int, error) {
	counts, err := groupCount(ctx, s.db, `SELECT service_name, count(*) FROM service_requests GROUP BY service_name`)
	if err != nil {
		return nil, fmt.Errorf("group requests by service: %w", err)
	}
	return counts, nil
}
