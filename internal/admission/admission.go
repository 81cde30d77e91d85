// Package admission is the single gate between conversation handlers and the
// record store. Every mutation of a domain entity passes through here, so
// entity invariants (unique passport, unique request pair, field shape) are
// enforced in one place no matter which flow triggered the write.
package admission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"sanad/internal/domain"
	"sanad/internal/store"
	domainerrors "sanad/pkg/domain-errors"
	"sanad/pkg/platform/sentinel"
)

type Validator struct {
	stores store.Stores
	now    func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the timestamp source. Tests use this to pin time.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

func New(stores store.Stores, opts ...Option) *Validator {
	v := &Validator{stores: stores, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// ParseFamilySize converts free text to a family size, requiring a positive
// integer.
func ParseFamilySize(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domainerrors.New(domainerrors.CodeValidation, "family size must be a positive whole number")
	}
	return n, nil
}

// PassportTaken reports whether a member with this passport already exists.
// Read-only; used by the registration flow to short-circuit before any data
// is collected further.
func (v *Validator) PassportTaken(ctx context.Context, passport string) (bool, error) {
	_, err := v.stores.Members.FindByPassport(ctx, strings.TrimSpace(passport))
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find member: %w", err)
	}
	return true, nil
}

// RegisterMember validates and persists a new member. The store's Create is
// the duplicate authority; a duplicate passport surfaces as CodeConflict.
func (v *Validator) RegisterMember(ctx context.Context, m domain.Member) (domain.Member, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Passport = strings.TrimSpace(m.Passport)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Address = strings.TrimSpace(m.Address)
	m.RoleLabel = strings.TrimSpace(m.RoleLabel)

	switch {
	case !govalidator.StringLength(m.Name, "1", "255"):
		return domain.Member{}, domainerrors.New(domainerrors.CodeValidation, "name is required")
	case !govalidator.StringLength(m.Passport, "1", "64"):
		return domain.Member{}, domainerrors.New(domainerrors.CodeValidation, "passport is required")
	case !govalidator.StringLength(m.Phone, "1", "32"):
		return domain.Member{}, domainerrors.New(domainerrors.CodeValidation, "phone is required")
	case !govalidator.StringLength(m.Address, "1", "512"):
		return domain.Member{}, domainerrors.New(domainerrors.CodeValidation, "address is required")
	case !govalidator.StringLength(m.RoleLabel, "1", "128"):
		return domain.Member{}, domainerrors.New(domainerrors.CodeValidation, "role is required")
	case m.FamilySize < 1:
		return domain.Member{}, domainerrors.New(domainerrors.CodeValidation, "family size must be a positive whole number")
	}

	if m.RegisteredAt.IsZero() {
		m.RegisteredAt = v.now()
	}
	if err := v.stores.Members.Create(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return domain.Member{}, domainerrors.Wrap(err, domainerrors.CodeConflict, "passport already registered")
		}
		return domain.Member{}, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}

// CreateAssistant persists a new assistant account.
func (v *Validator) CreateAssistant(ctx context.Context, a domain.Assistant) (domain.Assistant, error) {
	a.Username = strings.TrimSpace(a.Username)
	a.Password = strings.TrimSpace(a.Password)

	switch {
	case !govalidator.StringLength(a.Username, "1", "64"):
		return domain.Assistant{}, domainerrors.New(domainerrors.CodeValidation, "username is required")
	case !govalidator.StringLength(a.Password, "1", "128"):
		return domain.Assistant{}, domainerrors.New(domainerrors.CodeValidation, "password is required")
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = v.now()
	}
	if err := v.stores.Assistants.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return domain.Assistant{}, domainerrors.Wrap(err, domainerrors.CodeConflict, "username already exists")
		}
		return domain.Assistant{}, fmt.Errorf("create assistant: %w", err)
	}
	return a, nil
}

// CreateService persists a new service offering.
func (v *Validator) CreateService(ctx context.Context, name string) (domain.Service, error) {
	name = strings.TrimSpace(name)
	if !govalidator.StringLength(name, "1", "255") {
		return domain.Service{}, domainerrors.New(domainerrors.CodeValidation, "service name is required")
	}

	svc := domain.Service{Name: name, CreatedAt: v.now()}
	if err := v.stores.Services.Create(ctx, svc); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return domain.Service{}, domainerrors.Wrap(err, domainerrors.CodeConflict, "service already exists")
		}
		return domain.Service{}, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

// SubmitRequest creates a service request for a registered member. The
// service must exist, the passport must belong to a member, and the
// (passport, service) pair must be new. The requester name is snapshotted
// from the member record.
func (v *Validator) SubmitRequest(ctx context.Context, passport, serviceName string) (domain.ServiceRequest, error) {
	passport = strings.TrimSpace(passport)
	serviceName = strings.TrimSpace(serviceName)

	if _, err := v.stores.Services.Find(ctx, serviceName); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.ServiceRequest{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "service not offered")
		}
		return domain.ServiceRequest{}, fmt.Errorf("find service: %w", err)
	}

	member, err := v.stores.Members.FindByPassport(ctx, passport)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.ServiceRequest{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "passport not registered")
		}
		return domain.ServiceRequest{}, fmt.Errorf("find member: %w", err)
	}

	req := domain.ServiceRequest{
		ID:          uuid.NewString(),
		Passport:    passport,
		ServiceName: serviceName,
		Requester:   member.Name,
		RequestedAt: v.now(),
	}
	if err := v.stores.Requests.Create(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return domain.ServiceRequest{}, domainerrors.Wrap(err, domainerrors.CodeConflict, "request already submitted for this service")
		}
		return domain.ServiceRequest{}, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// PriorDelivery returns the latest delivery recorded for a passport, if any.
// The conversation layer uses it to warn before recording a repeat hand-off.
func (v *Validator) PriorDelivery(ctx context.Context, passport string) (domain.Delivery, bool, error) {
	d, err := v.stores.Deliveries.FindLatestByPassport(ctx, strings.TrimSpace(passport))
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.Delivery{}, false, nil
	}
	if err != nil {
		return domain.Delivery{}, false, fmt.Errorf("find delivery: %w", err)
	}
	return d, true, nil
}

// RecordDelivery persists a delivery hand-off. The passport must belong to a
// registered member; duplicates are allowed here because the warning and
// re-confirmation already happened upstream.
func (v *Validator) RecordDelivery(ctx context.Context, supervisor, passport string) (domain.Delivery, error) {
	passport = strings.TrimSpace(passport)

	member, err := v.stores.Members.FindByPassport(ctx, passport)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Delivery{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "passport not registered")
		}
		return domain.Delivery{}, fmt.Errorf("find member: %w", err)
	}

	d := domain.Delivery{
		ID:          uuid.NewString(),
		Supervisor:  supervisor,
		Passport:    passport,
		MemberName:  member.Name,
		DeliveredAt: v.now(),
	}
	if err := v.stores.Deliveries.Create(ctx, d); err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}
	return d, nil
}
