package contract

import (
	"context"
	"errors"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrConcurrentUpdate is returned by UpdateVersioned when the optimistic
// version check fails; callers retry once with backoff before surfacing.
var ErrConcurrentUpdate = errors.New("subscription was modified concurrently")

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error

	// Update writes the row without a version check. Reserved for fields that
	// never race with lifecycle transitions (gateway refs, checkout markers).
	Update(ctx context.Context, sub *entity.Subscription) error

	// UpdateVersioned writes the row guarded by the optimistic version
	// column; the in-memory version is bumped on success. Returns
	// ErrConcurrentUpdate when the stored version moved underneath us.
	UpdateVersioned(ctx context.Context, sub *entity.Subscription) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	// FindActiveByUser returns the user's single non-cancelled subscription,
	// or nil when none exists (backed by the partial unique index).
	FindActiveByUser(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)
	FindByGatewayOrderRef(ctx context.Context, orderRef string) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// ConsumeUsage performs the atomic check-and-increment for a metered
	// action as a single conditional statement. A negative limit means
	// unlimited: the counter still increments for observability but the
	// quota guard is skipped. ok=false means the guard rejected the update
	// (over quota, wrong status, or missing row); newUsage is only valid
	// when ok=true.
	ConsumeUsage(ctx context.Context, id uuid.UUID, amount, limit int) (newUsage int, ok bool, err error)

	// ResetPeriod zeroes usage_this_period and advances the period bounds,
	// leaving status and plan untouched.
	ResetPeriod(ctx context.Context, id uuid.UUID, periodStart, periodEnd time.Time) error

	// HasTrialHistory reports whether the user ever held a trial for the
	// plan, across cancelled subscriptions too (rows are never deleted).
	HasTrialHistory(ctx context.Context, userId uuid.UUID, planId string) (bool, error)
}
