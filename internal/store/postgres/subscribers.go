package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sanad/internal/domain"
)

type SubscriberStore struct {
	db *sql.DB
}

func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// Ensure is idempotent: first contact inserts, later contacts are no-ops.
func (s *SubscriberStore) Ensure(ctx context.Context, sub domain.Subscriber) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (chat_id, display_name, first_seen)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO NOTHING
	`, sub.ChatID, sub.DisplayName, sub.FirstSeen)
	if err != nil {
		return fmt.Errorf("ensure subscriber: %w", err)
	}
	return nil
}

func (s *SubscriberStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chat_id, display_name, first_seen FROM subscribers ORDER BY chat_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var all []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		if err := rows.Scan(&sub.ChatID, &sub.DisplayName, &sub.FirstSeen); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		all = append(all, sub)
	}
	return all, rows.Err()
}

func (s *SubscriberStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM subscribers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}
