package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"sanad/internal/store"
	"sanad/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for unique-index conflicts.
// Mapping it here keeps Create the single authority for ErrDuplicate: the
// index does the check-and-insert atomically, no pre-check involved.
const uniqueViolation = "23505"

func mapInsertErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrDuplicate
	}
	return err
}

// Open connects and verifies the database is reachable.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables on first start. Requests reference services
// with ON DELETE CASCADE so deleting one service removes exactly its requests.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS members (
			passport      TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			phone         TEXT NOT NULL DEFAULT '',
			address       TEXT NOT NULL DEFAULT '',
			role_label    TEXT NOT NULL DEFAULT '',
			family_size   INT  NOT NULL DEFAULT 1,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS assistants (
			username   TEXT PRIMARY KEY,
			password   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			name       TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS service_requests (
			id           TEXT PRIMARY KEY,
			passport     TEXT NOT NULL,
			service_name TEXT NOT NULL REFERENCES services(name) ON DELETE CASCADE,
			requester    TEXT NOT NULL DEFAULT '',
			requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (passport, service_name)
		)`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			id           TEXT PRIMARY KEY,
			supervisor   TEXT NOT NULL,
			passport     TEXT NOT NULL,
			member_name  TEXT NOT NULL DEFAULT '',
			delivered_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscribers (
			chat_id      TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			first_seen   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// New wires a postgres-backed Stores bundle over one connection pool.
func New(db *sql.DB) store.Stores {
	return store.Stores{
		Members:     NewMemberStore(db),
		Assistants:  NewAssistantStore(db),
		Services:    NewServiceStore(db),
		Requests:    NewRequestStore(db),
		Deliveries:  NewDeliveryStore(db),
		Subscribers: NewSubscriberStore(db),
	}
}

func groupCount(ctx context.Context, db *sql.DB, query string, args ...any) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
