// FILE: pkg/billing/trial/manager.go
// Package trial answers trial eligibility and status questions and runs the
// trial expiry sweep. Trial starts themselves go through the lifecycle
// manager; this package only reads trial state and expires lapsed windows.
package trial

import (
	"context"
	"errors"
	"math"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/repository/contract"
	"resume-analyzer-be/internal/repository/specification"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/google/uuid"
)

// Status is the user-facing view of a trial.
type Status struct {
	Active         bool       `json:"active"`
	PlanId         string     `json:"plan_id,omitempty"`
	DaysRemaining  int        `json:"days_remaining"`
	UsageThisTrial int        `json:"usage_this_trial"`
	AutoConvert    bool       `json:"auto_convert"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
}

type Manager struct {
	catalog *catalog.Catalog
	logger  logger.ILogger
	Now     func() time.Time
}

func NewManager(cat *catalog.Catalog, logger logger.ILogger) *Manager {
	return &Manager{catalog: cat, logger: logger, Now: time.Now}
}

// IsEligible reports whether the user may start a trial on the plan: the
// plan must be trialable, the user must not be trialing anything now, and
// must never have trialed this particular plan before. Eligibility is
// per plan, so a spent Professional trial leaves Business untouched.
func (m *Manager) IsEligible(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, planId string) (bool, error) {
	plan, err := m.catalog.Get(planId)
	if err != nil {
		return false, err
	}
	if !plan.Trialable() {
		return false, nil
	}

	used, err := uow.SubscriptionRepository().HasTrialHistory(ctx, userId, planId)
	if err != nil {
		return false, err
	}
	if used {
		return false, nil
	}

	current, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return false, err
	}
	if current != nil && current.Status == entity.SubscriptionStatusTrialing {
		return false, nil
	}
	return true, nil
}

// GetStatus reports the user's current trial, if any. DaysRemaining rounds
// up: a trial with an hour left still reads as one day.
func (m *Manager) GetStatus(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*Status, error) {
	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.InTrial(m.Now()) {
		return &Status{Active: false}, nil
	}

	remaining := sub.Trial.End.Sub(m.Now())
	days := int(math.Ceil(remaining.Hours() / 24))
	if days < 0 {
		days = 0
	}
	end := sub.Trial.End
	return &Status{
		Active:         true,
		PlanId:         sub.PlanId,
		DaysRemaining:  days,
		UsageThisTrial: sub.UsageThisPeriod,
		AutoConvert:    sub.AutoConvert,
		EndsAt:         &end,
	}, nil
}

// ExpireStaleTrials sweeps trialing subscriptions whose window has closed.
// AutoConvert rows become active on a fresh paid period; the rest cancel.
// Version conflicts skip the row, the next sweep retries.
func (m *Manager) ExpireStaleTrials(ctx context.Context, uow unitofwork.UnitOfWork) (int, error) {
	now := m.Now()
	stale, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusTrialing)},
		specification.TrialEndedBefore{At: now},
	)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, sub := range stale {
		if sub.AutoConvert {
			sub.Status = entity.SubscriptionStatusActive
			sub.CurrentPeriodStart = now
			sub.CurrentPeriodEnd = m.nextPeriodEnd(now, sub.BillingCycle)
			sub.UsageThisPeriod = 0
		} else {
			cancelledAt := now
			sub.Status = entity.SubscriptionStatusCancelled
			sub.CancelledAt = &cancelledAt
		}

		if err := uow.SubscriptionRepository().UpdateVersioned(ctx, sub); err != nil {
			if errors.Is(err, contract.ErrConcurrentUpdate) {
				continue
			}
			return processed, err
		}
		m.logger.Info("TRIAL", "Trial expired", map[string]interface{}{
			"subscription_id": sub.Id,
			"plan_id":         sub.PlanId,
			"converted":       sub.Status == entity.SubscriptionStatusActive,
		})
		processed++
	}
	return processed, nil
}

func (m *Manager) nextPeriodEnd(from time.Time, cycle entity.BillingCycle) time.Time {
	if cycle == entity.BillingCycleAnnual {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
