package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sanad/internal/domain"
	"sanad/internal/store"
	domainerrors "sanad/pkg/domain-errors"
	"sanad/pkg/platform/sentinel"
)

// Committer applies validated import rows to the record store.
type Committer struct {
	stores store.Stores
	now    func() time.Time
}

func NewCommitter(stores store.Stores) *Committer {
	return &Committer{stores: stores, now: func() time.Time { return time.Now().UTC() }}
}

// CommitResult aggregates the second stage. Errors index accepted rows,
// 1-based, in the order they appear in the report.
type CommitResult struct {
	Inserted int
	Updated  int
	Errors   []RowError
}

// Summary renders the bounded text reported after a commit.
func (r CommitResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d inserted, %d updated, %d failed", r.Inserted, r.Updated, len(r.Errors))
	for i, e := range r.Errors {
		if i == errorSample {
			fmt.Fprintf(&b, "\n… and %d more errors", len(r.Errors)-errorSample)
			break
		}
		b.WriteString("\n")
		b.WriteString(e.String())
	}
	return b.String()
}

// Commit upserts every accepted row: existing unique key updates in place,
// a new key inserts. A store failure on one row is captured and the batch
// continues.
func (c *Committer) Commit(ctx context.Context, report Report) (CommitResult, error) {
	switch report.Kind {
	case KindMembers:
		return c.commitMembers(ctx, report.Rows), nil
	case KindDeliveries:
		return c.commitDeliveries(ctx, report.Rows), nil
	case KindRequests:
		return c.commitRequests(ctx, report.Rows), nil
	default:
		return CommitResult{}, domainerrors.New(domainerrors.CodeBadRequest, "unknown import kind")
	}
}

func (c *Committer) commitMembers(ctx context.Context, rows []Row) CommitResult {
	var res CommitResult
	for i, row := range rows {
		// Validate already guaranteed the parse.
		family, _ := parseFamily(row["family_members"])
		m := domain.Member{
			Name:         row["name"],
			Passport:     row["passport"],
			Phone:        row["phone"],
			Address:      row["address"],
			RoleLabel:    row["role"],
			FamilySize:   family,
			RegisteredAt: c.now(),
		}

		_, err := c.stores.Members.FindByPassport(ctx, m.Passport)
		switch {
		case err == nil:
			if err := c.stores.Members.Update(ctx, m); err != nil {
				res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("update %s: %v", m.Passport, err)})
				continue
			}
			res.Updated++
		case errors.Is(err, sentinel.ErrNotFound):
			if err := c.stores.Members.Create(ctx, m); err != nil {
				res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("insert %s: %v", m.Passport, err)})
				continue
			}
			res.Inserted++
		default:
			res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("lookup %s: %v", m.Passport, err)})
		}
	}
	return res
}

func (c *Committer) commitDeliveries(ctx context.Context, rows []Row) CommitResult {
	var res CommitResult
	for i, row := range rows {
		deliveredAt, _ := parseDate(row["delivery_date"])
		d := domain.Delivery{
			ID:          uuid.NewString(),
			Supervisor:  row["supervisor"],
			Passport:    row["passport"],
			MemberName:  row["member_name"],
			DeliveredAt: deliveredAt,
		}
		if err := c.stores.Deliveries.Create(ctx, d); err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("insert %s: %v", d.Passport, err)})
			continue
		}
		res.Inserted++
	}
	return res
}

func (c *Committer) commitRequests(ctx context.Context, rows []Row) CommitResult {
	var res CommitResult
	for i, row := range rows {
		requestedAt, _ := parseDate(row["request_date"])
		r := domain.ServiceRequest{
			ID:          uuid.NewString(),
			Passport:    row["passport"],
			ServiceName: row["service_name"],
			Requester:   row["requester"],
			RequestedAt: requestedAt,
		}

		exists, err := c.stores.Requests.Exists(ctx, r.Passport, r.ServiceName)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("lookup %s/%s: %v", r.Passport, r.ServiceName, err)})
			continue
		}
		if exists {
			if err := c.stores.Requests.Update(ctx, r); err != nil {
				res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("update %s/%s: %v", r.Passport, r.ServiceName, err)})
				continue
			}
			res.Updated++
			continue
		}
		if err := c.stores.Requests.Create(ctx, r); err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Message: fmt.Sprintf("insert %s/%s: %v", r.Passport, r.ServiceName, err)})
			continue
		}
		res.Inserted++
	}
	return res
}
