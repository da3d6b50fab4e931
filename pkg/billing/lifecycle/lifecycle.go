// FILE: pkg/billing/lifecycle/lifecycle.go
// Package lifecycle drives subscription state transitions. All mutation goes
// through here: externally delivered billing events, user-initiated trial
// starts and cancellations, and the period rollover sweep. Transitions are
// guarded by the optimistic version column and by the processed-events
// ledger, so every path is safe to retry.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/repository/contract"
	"resume-analyzer-be/internal/repository/specification"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/catalog"
	"resume-analyzer-be/pkg/billing/usage"

	"github.com/google/uuid"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrTrialNotEligible     = errors.New("user is not eligible for a trial on this plan")
	ErrAlreadySubscribed    = errors.New("user already has a non-cancelled subscription")
)

// retryBackoff is the single pause before the one retry on a lost
// optimistic-concurrency race.
const retryBackoff = 25 * time.Millisecond

type Manager struct {
	catalog *catalog.Catalog
	meter   *usage.Meter
	logger  logger.ILogger
	// Now is swappable for deterministic tests.
	Now func() time.Time
}

func NewManager(cat *catalog.Catalog, meter *usage.Meter, logger logger.ILogger) *Manager {
	return &Manager{
		catalog: cat,
		meter:   meter,
		logger:  logger,
		Now:     time.Now,
	}
}

// CreateFreeSubscription provisions the default free-tier subscription for a
// user with none. Monthly rolling period starting now. The partial unique
// index on (user_id) WHERE status <> 'cancelled' backstops double creation.
func (m *Manager) CreateFreeSubscription(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.Subscription, error) {
	existing, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	now := m.Now()
	free := m.catalog.FreePlan()
	sub := &entity.Subscription{
		Id:                 uuid.New(),
		UserId:             userId,
		PlanId:             free.Id,
		Status:             entity.SubscriptionStatusActive,
		BillingCycle:       entity.BillingCycleMonthly,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		Version:            1,
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}
	m.logger.Info("LIFECYCLE", "Free subscription created", map[string]interface{}{
		"subscription_id": sub.Id,
		"user_id":         userId,
	})
	return sub, nil
}

// StartTrial moves the user's subscription onto a trialable plan in trialing
// status. One trial per user per plan, ever; trial history is derived from
// retained cancelled rows. Usage resets so the trial showcases the plan from
// a clean slate.
func (m *Manager) StartTrial(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, planId string, autoConvert bool) (*entity.Subscription, error) {
	plan, err := m.catalog.Get(planId)
	if err != nil {
		return nil, err
	}
	if !plan.Trialable() {
		return nil, ErrTrialNotEligible
	}

	used, err := uow.SubscriptionRepository().HasTrialHistory(ctx, userId, planId)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrTrialNotEligible
	}

	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if sub.Status == entity.SubscriptionStatusTrialing {
		return nil, ErrTrialNotEligible
	}

	now := m.Now()
	trialEnd := now.AddDate(0, 0, plan.TrialDays)
	sub.PlanId = planId
	sub.Status = entity.SubscriptionStatusTrialing
	sub.Trial = &entity.TrialPeriod{Start: now, End: trialEnd}
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = trialEnd
	sub.UsageThisPeriod = 0
	sub.AutoConvert = autoConvert

	if err := m.updateWithRetry(ctx, uow, sub); err != nil {
		return nil, err
	}
	m.logger.Info("LIFECYCLE", "Trial started", map[string]interface{}{
		"subscription_id": sub.Id,
		"plan_id":         planId,
		"trial_end":       trialEnd,
	})
	return sub, nil
}

// ApplyBillingEvent feeds one gateway event through the state machine. The
// ledger insert, the transition, and the version bump share the caller's
// transaction, so an event is either fully applied or not at all.
//
// Unrecognized and unroutable events are acknowledged (not errors): the
// gateway retries on failure and we never want redelivery storms over
// events we will never handle.
func (m *Manager) ApplyBillingEvent(ctx context.Context, uow unitofwork.UnitOfWork, event *entity.BillingEvent) (entity.ApplyOutcome, error) {
	sub, err := uow.SubscriptionRepository().FindByGatewayOrderRef(ctx, event.OrderRef)
	if err != nil {
		return "", err
	}
	if sub == nil {
		m.logger.Warn("LIFECYCLE", "Billing event for unknown order ref", map[string]interface{}{
			"event_id":  event.EventId,
			"order_ref": event.OrderRef,
		})
		return entity.OutcomeIgnored, nil
	}

	inserted, err := uow.EventLedgerRepository().Record(ctx, event, sub.Id)
	if err != nil {
		return "", err
	}
	if !inserted {
		return entity.OutcomeAlreadyProcessed, nil
	}

	// Monotonic guard: an event older than the last applied one is recorded
	// in the ledger (so a redelivery stays a no-op) but never applied.
	if sub.LastEventAt != nil && !event.OccurredAt.After(*sub.LastEventAt) {
		m.logger.Warn("LIFECYCLE", "Stale billing event dropped", map[string]interface{}{
			"event_id":    event.EventId,
			"occurred_at": event.OccurredAt,
			"last_event":  *sub.LastEventAt,
		})
		return entity.OutcomeStale, nil
	}

	applied, err := m.transition(ctx, uow, sub, event)
	if err != nil {
		return "", err
	}
	if !applied {
		return entity.OutcomeIgnored, nil
	}
	return entity.OutcomeApplied, nil
}

// transition applies the per-event-type state change. Cancelled is terminal:
// nothing moves a subscription out of it, replays included.
func (m *Manager) transition(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, event *entity.BillingEvent) (bool, error) {
	if sub.Status == entity.SubscriptionStatusCancelled {
		return false, nil
	}

	now := m.Now()
	occurred := event.OccurredAt
	sub.LastEventAt = &occurred

	switch event.EventType {
	case entity.BillingEventActivation:
		if event.PlanId != "" {
			if _, err := m.catalog.Get(event.PlanId); err != nil {
				m.logger.Error("LIFECYCLE", "Activation names unknown plan", map[string]interface{}{
					"event_id": event.EventId,
					"plan_id":  event.PlanId,
				})
				return false, nil
			}
			sub.PlanId = event.PlanId
		}
		sub.Status = entity.SubscriptionStatusActive
		sub.Trial = nil
		sub.CheckoutStartedAt = nil
		sub.CheckoutTargetPlan = nil
		sub.AutoConvert = event.AutoConvert || sub.AutoConvert
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = m.periodEnd(event, now, sub.BillingCycle)
		sub.UsageThisPeriod = 0

	case entity.BillingEventChargeSucceeded:
		// Renewal: extend the period and reset the counter. A charge landing
		// on a past_due subscription recovers it.
		sub.Status = entity.SubscriptionStatusActive
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = m.periodEnd(event, now, sub.BillingCycle)
		sub.UsageThisPeriod = 0

	case entity.BillingEventChargeFailed:
		sub.Status = entity.SubscriptionStatusPastDue

	case entity.BillingEventCancellation:
		cancelledAt := now
		sub.Status = entity.SubscriptionStatusCancelled
		sub.CancelledAt = &cancelledAt

	case entity.BillingEventTrialWillEnd:
		// Advisory only. Recorded for conversion prompts; no state change
		// beyond the monotonic watermark.

	default:
		m.logger.Warn("LIFECYCLE", "Unrecognized billing event type", map[string]interface{}{
			"event_id":   event.EventId,
			"event_type": event.EventType,
		})
		return false, nil
	}

	if err := m.updateWithRetry(ctx, uow, sub); err != nil {
		return false, err
	}
	m.logger.Info("LIFECYCLE", "Billing event applied", map[string]interface{}{
		"event_id":        event.EventId,
		"event_type":      event.EventType,
		"subscription_id": sub.Id,
		"status":          sub.Status,
	})
	return true, nil
}

func (m *Manager) periodEnd(event *entity.BillingEvent, from time.Time, cycle entity.BillingCycle) time.Time {
	if event.PeriodEnd != nil {
		return *event.PeriodEnd
	}
	if cycle == entity.BillingCycleAnnual {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// RequestCancel handles user-initiated cancellation. Paid subscriptions
// cancel at period end by default (access persists until the boundary);
// immediate cancels, and anything on the free plan, take effect now.
func (m *Manager) RequestCancel(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, immediate bool) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	now := m.Now()
	free := m.catalog.FreePlan()
	if immediate || sub.PlanId == free.Id {
		sub.Status = entity.SubscriptionStatusCancelled
		sub.CancelledAt = &now
	} else {
		sub.CancelAtPeriodEnd = true
	}

	if err := m.updateWithRetry(ctx, uow, sub); err != nil {
		return nil, err
	}
	m.logger.Info("LIFECYCLE", "Cancellation requested", map[string]interface{}{
		"subscription_id": sub.Id,
		"immediate":       immediate || sub.PlanId == free.Id,
	})
	return sub, nil
}

// ProcessPeriodRollovers is the sweep behind free-tier quota refresh and
// deferred cancellations. For each subscription whose period has lapsed:
// rows flagged cancel_at_period_end cancel; free rows roll into a fresh
// period with zeroed usage. Paid periods advance on gateway charge events,
// not here.
func (m *Manager) ProcessPeriodRollovers(ctx context.Context, uow unitofwork.UnitOfWork) (int, error) {
	now := m.Now()
	lapsed, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
		specification.PeriodEndedBefore{At: now},
	)
	if err != nil {
		return 0, err
	}

	free := m.catalog.FreePlan()
	processed := 0
	for _, sub := range lapsed {
		switch {
		case sub.CancelAtPeriodEnd:
			cancelledAt := now
			sub.Status = entity.SubscriptionStatusCancelled
			sub.CancelledAt = &cancelledAt
			err = m.updateWithRetry(ctx, uow, sub)
		case sub.PlanId == free.Id:
			err = m.meter.ResetPeriod(ctx, uow, sub.Id, now, now.AddDate(0, 1, 0))
		default:
			// Paid row past its period with no renewal charge yet. Leave it:
			// the gateway will deliver charge.succeeded or charge.failed.
			continue
		}
		if err != nil {
			if errors.Is(err, contract.ErrConcurrentUpdate) {
				// Someone else moved this row mid-sweep; the next run picks
				// it up if still lapsed.
				continue
			}
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// updateWithRetry is the single retry-once policy for lost optimistic races:
// reload, reapply the already-staged fields that are idempotent to recompute,
// and surface ErrConcurrentUpdate if the second attempt loses too.
func (m *Manager) updateWithRetry(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription) error {
	err := uow.SubscriptionRepository().UpdateVersioned(ctx, sub)
	if err == nil || !errors.Is(err, contract.ErrConcurrentUpdate) {
		return err
	}

	time.Sleep(retryBackoff)
	fresh, rerr := uow.SubscriptionRepository().FindByID(ctx, sub.Id)
	if rerr != nil {
		return rerr
	}
	if fresh == nil {
		return ErrSubscriptionNotFound
	}
	if fresh.Status == entity.SubscriptionStatusCancelled {
		// Terminal state won the race; do not resurrect.
		*sub = *fresh
		return contract.ErrConcurrentUpdate
	}
	sub.Version = fresh.Version
	sub.UsageThisPeriod = fresh.UsageThisPeriod
	return uow.SubscriptionRepository().UpdateVersioned(ctx, sub)
}
