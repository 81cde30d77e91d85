package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) Create(ctx context.Context, m domain.Member) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (passport, name, phone, address, role_label, family_size, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.Passport, m.Name, m.Phone, m.Address, m.RoleLabel, m.FamilySize, m.RegisteredAt)
	if err != nil {
		if mapped := mapInsertErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (s *MemberStore) FindByPassport(ctx context.Context, passport string) (domain.Member, error) {
	var m domain.Member
	err := s.db.QueryRowContext(ctx, `
		SELECT passport, name, phone, address, role_label, family_size, registered_at
		FROM members WHERE passport = $1
	`, passport).Scan(&m.Passport, &m.Name, &m.Phone, &m.Address, &m.RoleLabel, &m.FamilySize, &m.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("find member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT passport, name, phone, address, role_label, family_size, registered_at
		FROM members ORDER BY passport
	`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var all []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.Passport, &m.Name, &m.Phone, &m.Address, &m.RoleLabel, &m.FamilySize, &m.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		all = append(all, m)
	}
	return all, rows.Err()
}

func (s *MemberStore) Update(ctx context.Context, m domain.Member) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE members
		SET name = $2, phone = $3, address = $4, role_label = $5, family_size = $6
		WHERE passport = $1
	`, m.Passport, m.Name, m.Phone, m.Address, m.RoleLabel, m.FamilySize)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MemberStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM members`); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return nil
}

func (s *MemberStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

func (s *MemberStore) FamilyTotal(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT coalesce(sum(family_size), 0) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sum family size: %w", err)
	}
	return n, nil
}

func (s *MemberStore) CountByRoleLabel(ctx context.Context) (map[string]int, error) {
	counts, err := groupCount(ctx, s.db, `SELECT role_label, count(*) FROM members GROUP BY role_label`)
	if err != nil {
		return nil, fmt.Errorf("group members by role: %w", err)
	}
	return counts, nil
}
