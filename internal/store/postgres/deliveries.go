package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

type DeliveryStore struct {
	db *sql.DB
}

func NewDeliveryStore(db *sql.DB) *DeliveryStore {
	return &DeliveryStore{db: db}
}

func (s *DeliveryStore) Create(ctx context.Context, d domain.Delivery) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, supervisor, passport, member_name, delivered_at)
		VALUES ($1, $2, $3, $4, $5)
	`, d.ID, d.Supervisor, d.Passport, d.MemberName, d.DeliveredAt)
	if err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

func (s *DeliveryStore) FindLatestByPassport(ctx context.Context, passport string) (domain.Delivery, error) {
	var d domain.Delivery
	err := s.db.QueryRowContext(ctx, `
		SELECT id, supervisor, passport, member_name, delivered_at
		FROM deliveries WHERE passport = $1
		ORDER BY delivered_at DESC LIMIT 1
	`, passport).Scan(&d.ID, &d.Supervisor, &d.Passport, &d.MemberName, &d.DeliveredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Delivery{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("find latest delivery: %w", err)
	}
	return d, nil
}

func (s *DeliveryStore) List(ctx context.Context) ([]domain.Delivery, error) {
	return s.query(ctx, `
		SELECT id, supervisor, passport, member_name, delivered_at
		FROM deliveries ORDER BY delivered_at, passport
	`)
}

func (s *DeliveryStore) ListBySupervisor(ctx context.Context, supervisor string) ([]domain.Delivery, error) {
	return s.query(ctx, `
		SELECT id, supervisor, passport, member_name, delivered_at
		FROM deliveries WHERE supervisor = $1 ORDER BY delivered_at, passport
	`, supervisor)
}

func (s *DeliveryStore) query(ctx context.Context, q string, args ...any) ([]domain.Delivery, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var all []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		if err := rows.Scan(&d.ID, &d.Supervisor, &d.Passport, &d.MemberName, &d.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		all = append(all, d)
	}
	return all, rows.Err()
}

func (s *DeliveryStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM deliveries`); err != nil {
		return fmt.Errorf("delete deliveries: %w", err)
	}
	return nil
}

func (s *DeliveryStore) DeleteBySupervisor(ctx context.Context, supervisor string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM deliveries WHERE supervisor = $1`, supervisor); err != nil {
		return fmt.Errorf("delete deliveries by supervisor: %w", err)
	}
	return nil
}

func (s *DeliveryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM deliveries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count deliveries: %w", err)
	}
	return n, nil
}

func (s *DeliveryStore) CountBySupervisor(ctx context.Context) (map[string]int, error) {
	counts, err := groupCount(ctx, s.db, `SELECT supervisor, count(*) FROM deliveries GROUP BY supervisor`)
	if err != nil {
		return nil, fmt.Errorf("group deliveries by supervisor: %w", err)
	}
	return counts, nil
}

func (s *DeliveryStore) CountByDate(ctx context.Context, supervisor string) (map[string]int, error) {
	counts, err := groupCount(ctx, s.db, `
		SELECT to_char(delivered_at, 'YYYY-MM-DD'), count(*)
		FROM deliveries WHERE supervisor = $1
		GROUP BY 1
	`, supervisor)
	if err != nil {
		return nil, fmt.Errorf("group deliveries by date: %w", err)
	}
	return counts, nil
}
