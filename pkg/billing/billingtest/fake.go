// FILE: pkg/billing/billingtest/fake.go
// Package billingtest provides an in-memory UnitOfWork implementation for
// exercising the billing managers without a database. The subscription store
// is mutex-guarded and reproduces the store-side concurrency semantics: the
// conditional quota increment and the optimistic version check.
package billingtest

import (
	"context"
	"sync"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/repository/contract"
	"resume-analyzer-be/internal/repository/specification"
	"resume-analyzer-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type FakeUnitOfWork struct {
	Subs   *FakeSubscriptionRepository
	Ledger *FakeEventLedger
	Conv   *FakeConversionRepository
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Subs:   NewFakeSubscriptionRepository(),
		Ledger: NewFakeEventLedger(),
		Conv:   &FakeConversionRepository{},
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *FakeUnitOfWork) Commit() error                   { return nil }
func (u *FakeUnitOfWork) Rollback() error                 { return nil }

func (u *FakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return u.Subs
}

func (u *FakeUnitOfWork) EventLedgerRepository() contract.EventLedgerRepository {
	return u.Ledger
}

func (u *FakeUnitOfWork) ConversionRepository() contract.ConversionRepository {
	return u.Conv
}

var _ unitofwork.UnitOfWork = (*FakeUnitOfWork)(nil)

type FakeSubscriptionRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Subscription
}

func NewFakeSubscriptionRepository() *FakeSubscriptionRepository {
	return &FakeSubscriptionRepository{rows: make(map[uuid.UUID]*entity.Subscription)}
}

func clone(s *entity.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	c := *s
	if s.Trial != nil {
		t := *s.Trial
		c.Trial = &t
	}
	return &c
}

func (r *FakeSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[sub.Id] = clone(sub)
	return nil
}

func (r *FakeSubscriptionRepository) Update(ctx context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[sub.Id] = clone(sub)
	return nil
}

func (r *FakeSubscriptionRepository) UpdateVersioned(ctx context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[sub.Id]
	if !ok || stored.Version != sub.Version {
		return contract.ErrConcurrentUpdate
	}
	sub.Version++
	r.rows[sub.Id] = clone(sub)
	return nil
}

func (r *FakeSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.rows[id]), nil
}

func (r *FakeSubscriptionRepository) FindActiveByUser(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.UserId == userId && s.Status != entity.SubscriptionStatusCancelled {
			return clone(s), nil
		}
	}
	return nil, nil
}

func (r *FakeSubscriptionRepository) FindByGatewayOrderRef(ctx context.Context, orderRef string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.GatewaySubscriptionRef != nil && *s.GatewaySubscriptionRef == orderRef {
			return clone(s), nil
		}
	}
	return nil, nil
}

// FindAll interprets the known subscription specifications in memory so the
// sweep paths behave as they do against the database.
func (r *FakeSubscriptionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Subscription
	for _, s := range r.rows {
		if matchesAll(s, specs) {
			out = append(out, clone(s))
		}
	}
	return out, nil
}

func matchesAll(s *entity.Subscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.UserOwnedBy:
			if s.UserId != v.UserID {
				return false
			}
		case specification.StatusIs:
			if string(s.Status) != v.Status {
				return false
			}
		case specification.PeriodEndedBefore:
			if !s.CurrentPeriodEnd.Before(v.At) {
				return false
			}
		case specification.TrialEndedBefore:
			if s.Trial == nil || !s.Trial.End.Before(v.At) {
				return false
			}
		case specification.CheckoutStartedBefore:
			if s.CheckoutStartedAt == nil || !s.CheckoutStartedAt.Before(v.At) {
				return false
			}
		}
	}
	return true
}

func (r *FakeSubscriptionRepository) ConsumeUsage(ctx context.Context, id uuid.UUID, amount, limit int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return 0, false, nil
	}
	if s.Status != entity.SubscriptionStatusTrialing && s.Status != entity.SubscriptionStatusActive {
		return 0, false, nil
	}
	if limit >= 0 && s.UsageThisPeriod+amount > limit {
		return 0, false, nil
	}
	s.UsageThisPeriod += amount
	s.Version++
	return s.UsageThisPeriod, true, nil
}

func (r *FakeSubscriptionRepository) ResetPeriod(ctx context.Context, id uuid.UUID, periodStart, periodEnd time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[id]; ok {
		s.UsageThisPeriod = 0
		s.CurrentPeriodStart = periodStart
		s.CurrentPeriodEnd = periodEnd
		s.Version++
	}
	return nil
}

func (r *FakeSubscriptionRepository) HasTrialHistory(ctx context.Context, userId uuid.UUID, planId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.UserId == userId && s.PlanId == planId && s.Trial != nil {
			return true, nil
		}
	}
	return false, nil
}

// Get returns the stored row for direct assertions.
func (r *FakeSubscriptionRepository) Get(id uuid.UUID) *entity.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.rows[id])
}

var _ contract.SubscriptionRepository = (*FakeSubscriptionRepository)(nil)

type FakeEventLedger struct {
	mu   sync.Mutex
	rows map[string]*entity.ProcessedBillingEvent
}

func NewFakeEventLedger() *FakeEventLedger {
	return &FakeEventLedger{rows: make(map[string]*entity.ProcessedBillingEvent)}
}

func (l *FakeEventLedger) Record(ctx context.Context, event *entity.BillingEvent, subscriptionId uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.rows[event.EventId]; dup {
		return false, nil
	}
	l.rows[event.EventId] = &entity.ProcessedBillingEvent{
		EventId:        event.EventId,
		SubscriptionId: subscriptionId,
		EventType:      event.EventType,
		OccurredAt:     event.OccurredAt,
		ProcessedAt:    time.Now(),
	}
	return true, nil
}

func (l *FakeEventLedger) Find(ctx context.Context, eventId string) (*entity.ProcessedBillingEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows[eventId], nil
}

func (l *FakeEventLedger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for id, row := range l.rows {
		if row.ProcessedAt.Before(cutoff) {
			delete(l.rows, id)
			n++
		}
	}
	return n, nil
}

var _ contract.EventLedgerRepository = (*FakeEventLedger)(nil)

type FakeConversionRepository struct {
	mu     sync.Mutex
	Events []*entity.ConversionEvent
}

func (r *FakeConversionRepository) Create(ctx context.Context, event *entity.ConversionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

func (r *FakeConversionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ConversionEvent(nil), r.Events...), nil
}

func (r *FakeConversionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.Events)), nil
}

var _ contract.ConversionRepository = (*FakeConversionRepository)(nil)

// NopLogger satisfies logger.ILogger for tests.
type NopLogger struct{}

func (NopLogger) Debug(module, message string, details map[string]interface{}) {}
func (NopLogger) Info(module, message string, details map[string]interface{})  {}
func (NopLogger) Warn(module, message string, details map[string]interface{})  {}
func (NopLogger) Error(module, message string, details map[string]interface{}) {}
func (NopLogger) Sync() error {
	return nil
}
