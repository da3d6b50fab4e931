// Package usage tracks and enforces the rolling-period analysis quota. The
// check-and-increment is pushed down to the store as one conditional
// statement, so concurrent consumers for the same subscription are
// linearizable: attempts never double-count and never get lost.
package usage

import (
	"context"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/google/uuid"
)

// Result of a consume attempt. Denied is a normal outcome carrying the
// observed usage and limit, not an error.
type Result struct {
	Consumed     bool
	NewUsage     int
	CurrentUsage int
	Limit        int
}

func (r Result) Remaining() int {
	if r.Limit == catalog.Unlimited {
		return catalog.Unlimited
	}
	used := r.CurrentUsage
	if r.Consumed {
		used = r.NewUsage
	}
	if rem := r.Limit - used; rem > 0 {
		return rem
	}
	return 0
}

type Meter struct {
	logger logger.ILogger
}

func NewMeter(logger logger.ILogger) *Meter {
	return &Meter{logger: logger}
}

// TryConsume atomically claims quota headroom for a metered action. The
// quota value comes from the subscription's plan; unlimited plans always
// consume and still increment the counter for observability.
func (m *Meter) TryConsume(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, plan catalog.Plan, amount int) (Result, error) {
	if amount < 1 {
		amount = 1
	}
	limit := plan.QuotaPerPeriod

	newUsage, ok, err := uow.SubscriptionRepository().ConsumeUsage(ctx, sub.Id, amount, limit)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Consumed: true, NewUsage: newUsage, Limit: limit}, nil
	}

	// The guard rejected the update; re-read for an accurate denial.
	current, err := uow.SubscriptionRepository().FindByID(ctx, sub.Id)
	if err != nil {
		return Result{}, err
	}
	denied := Result{Limit: limit}
	if current != nil {
		denied.CurrentUsage = current.UsageThisPeriod
	}
	m.logger.Info("USAGE", "Quota consume denied", map[string]interface{}{
		"subscription_id": sub.Id,
		"usage":           denied.CurrentUsage,
		"limit":           limit,
	})
	return denied, nil
}

// ResetPeriod zeroes the period counter and advances the period bounds.
// Called on rollover and on renewal events; status and plan are untouched.
func (m *Meter) ResetPeriod(ctx context.Context, uow unitofwork.UnitOfWork, subscriptionId uuid.UUID, periodStart, periodEnd time.Time) error {
	return uow.SubscriptionRepository().ResetPeriod(ctx, subscriptionId, periodStart, periodEnd)
}
