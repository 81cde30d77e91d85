package store

import (
	"context"

	"sanad/internal/domain"
)

// Per-entity store contracts. Implementations live in store/memory and
// store/postgres. Uniqueness is enforced inside Create: the store is the sole
// authority raising sentinel.ErrDuplicate, so concurrent creates for the same
// key cannot both pass a pre-check and insert.

type MemberStore interface {
	// Create fails with sentinel.ErrDuplicate when the passport exists and
	// must not partially apply.
	Create(ctx context.Context, m domain.Member) error
	FindByPassport(ctx context.Context, passport string) (domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	// Update replaces the record for m.Passport; sentinel.ErrNotFound if absent.
	Update(ctx context.Context, m domain.Member) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	// FamilyTotal sums FamilySize across all members.
	FamilyTotal(ctx context.Context) (int, error)
	// CountByRoleLabel groups members by their free-text role label.
	CountByRoleLabel(ctx context.Context) (map[string]int, error)
}

type AssistantStore interface {
	Create(ctx context.Context, a domain.Assistant) error
	FindByUsername(ctx context.Context, username string) (domain.Assistant, error)
	// Authenticate resolves the exact username+password pair, or
	// sentinel.ErrNotFound. The guard calls this on every privileged entry,
	// never caching the result.
	Authenticate(ctx context.Context, username, password string) (domain.Assistant, error)
	List(ctx context.Context) ([]domain.Assistant, error)
	UpdatePassword(ctx context.Context, username, password string) error
	Delete(ctx context.Context, username string) error
	Count(ctx context.Context) (int, error)
}

type ServiceStore interface {
	Create(ctx context.Context, s domain.Service) error
	Find(ctx context.Context, name string) (domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	// Delete removes one service and cascades to its requests. There is no
	// delete-all for services.
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context) (int, error)
}

type RequestStore interface {
	// Create fails with sentinel.ErrDuplicate when a request for the same
	// (passport, service name) pair exists.
	Create(ctx context.Context, r domain.ServiceRequest) error
	Exists(ctx context.Context, passport, serviceName string) (bool, error)
	// Update replaces the request matching (r.Passport, r.ServiceName).
	Update(ctx context.Context, r domain.ServiceRequest) error
	List(ctx context.Context) ([]domain.ServiceRequest, error)
	ListByService(ctx context.Context, serviceName string) ([]domain.ServiceRequest, error)
	DeleteByService(ctx context.Context, serviceName string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	CountByService(ctx context.Context) (map[string]int, error)
}

type DeliveryStore interface {
	// Create never rejects duplicates: re-delivery is allowed after the
	// conversation layer's warning step.
	Create(ctx context.Context, d domain.Delivery) error
	// FindLatestByPassport returns the most recent delivery for a passport,
	// or sentinel.ErrNotFound.
	FindLatestByPassport(ctx context.Context, passport string) (domain.Delivery, error)
	List(ctx context.Context) ([]domain.Delivery, error)
	ListBySupervisor(ctx context.Context, supervisor string) ([]domain.Delivery, error)
	DeleteAll(ctx context.Context) error
	DeleteBySupervisor(ctx context.Context, supervisor string) error
	Count(ctx context.Context) (int, error)
	CountBySupervisor(ctx context.Context) (map[string]int, error)
	// CountByDate groups one supervisor's deliveries by calendar day
	// (YYYY-MM-DD).
	CountByDate(ctx context.Context, supervisor string) (map[string]int, error)
}

type SubscriberStore interface {
	// Ensure records the subscriber on first contact and is a no-op when the
	// chat id is already known.
	Ensure(ctx context.Context, s domain.Subscriber) error
	List(ctx context.Context) ([]domain.Subscriber, error)
	Count(ctx context.Context) (int, error)
}

// Stores bundles one implementation of everything, so wiring passes a single
// value around.
type Stores struct {
	Members     MemberStore
	Assistants  AssistantStore
	Services    ServiceStore
	Requests    RequestStore
	Deliveries  DeliveryStore
	Subscribers SubscriberStore
}
