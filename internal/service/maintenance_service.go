// FILE: internal/service/maintenance_service.go
package service

import (
	"context"
	"math/rand"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/pkg/mailer"
	"resume-analyzer-be/internal/repository/specification"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/lifecycle"
	"resume-analyzer-be/pkg/billing/trial"

	"github.com/google/uuid"
)

// IMaintenanceService runs the periodic background sweeps: trial expiry,
// free-tier period rollover, ledger retention, and abandoned checkout
// detection. Every sweep is safe to run concurrently with live traffic and
// with a second instance; row-level version checks resolve the races.
type IMaintenanceService interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context)
}

type maintenanceService struct {
	uowFactory     unitofwork.RepositoryFactory
	lifecycle      *lifecycle.Manager
	trials         *trial.Manager
	publisher      IPublisherService
	mailer         mailer.IEmailService
	logger         logger.ILogger
	sweepInterval  time.Duration
	eventRetention time.Duration
	abandonedAfter time.Duration
}

func NewMaintenanceService(
	uowFactory unitofwork.RepositoryFactory,
	lc *lifecycle.Manager,
	trials *trial.Manager,
	publisher IPublisherService,
	emailService mailer.IEmailService,
	logger logger.ILogger,
	sweepInterval, eventRetention, abandonedAfter time.Duration,
) IMaintenanceService {
	return &maintenanceService{
		uowFactory:     uowFactory,
		lifecycle:      lc,
		trials:         trials,
		publisher:      publisher,
		mailer:         emailService,
		logger:         logger,
		sweepInterval:  sweepInterval,
		eventRetention: eventRetention,
		abandonedAfter: abandonedAfter,
	}
}

func (s *maintenanceService) Start(ctx context.Context) {
	go func() {
		// Jitter up to 10% so multiple instances don't sweep in lockstep.
		timer := time.NewTimer(s.jitteredInterval())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				s.RunOnce(ctx)
				timer.Reset(s.jitteredInterval())
			}
		}
	}()
}

func (s *maintenanceService) jitteredInterval() time.Duration {
	return s.sweepInterval + time.Duration(rand.Int63n(int64(s.sweepInterval)/10+1))
}

func (s *maintenanceService) RunOnce(ctx context.Context) {
	s.expireTrials(ctx)
	s.rolloverPeriods(ctx)
	s.purgeLedger(ctx)
	s.detectAbandonedCheckouts(ctx)
}

func (s *maintenanceService) expireTrials(ctx context.Context) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := s.trials.ExpireStaleTrials(ctx, uow)
	if err != nil {
		s.logger.Error("MAINTENANCE", "Trial expiry sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if n > 0 {
		s.logger.Info("MAINTENANCE", "Expired stale trials", map[string]interface{}{"count": n})
	}
}

func (s *maintenanceService) rolloverPeriods(ctx context.Context) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := s.lifecycle.ProcessPeriodRollovers(ctx, uow)
	if err != nil {
		s.logger.Error("MAINTENANCE", "Period rollover sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if n > 0 {
		s.logger.Info("MAINTENANCE", "Rolled over lapsed periods", map[string]interface{}{"count": n})
	}
}

func (s *maintenanceService) purgeLedger(ctx context.Context) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := time.Now().Add(-s.eventRetention)
	n, err := uow.EventLedgerRepository().PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("MAINTENANCE", "Ledger purge failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if n > 0 {
		s.logger.Info("MAINTENANCE", "Purged processed billing events", map[string]interface{}{"count": n})
	}
}

// detectAbandonedCheckouts finds rows whose checkout markers outlived the
// grace window with no activation event, records the funnel drop, nudges
// the customer by email, and clears the markers so the row is flagged once.
func (s *maintenanceService) detectAbandonedCheckouts(ctx context.Context) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := time.Now().Add(-s.abandonedAfter)
	stale, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.CheckoutStartedBefore{At: cutoff},
	)
	if err != nil {
		s.logger.Error("MAINTENANCE", "Abandoned checkout sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, sub := range stale {
		targetPlan := ""
		if sub.CheckoutTargetPlan != nil {
			targetPlan = *sub.CheckoutTargetPlan
		}

		if s.publisher != nil {
			s.publisher.Record(ctx, &entity.ConversionEvent{
				Id:         uuid.New(),
				UserId:     sub.UserId,
				EventType:  entity.ConversionCheckoutAbandoned,
				SourcePlan: sub.PlanId,
				TargetPlan: targetPlan,
				OccurredAt: time.Now(),
			})
		}
		if s.mailer != nil && sub.GatewayCustomerRef != nil {
			if err := s.mailer.SendCheckoutReminder(*sub.GatewayCustomerRef, targetPlan); err != nil {
				s.logger.Warn("MAINTENANCE", "Checkout reminder email failed", map[string]interface{}{
					"subscription_id": sub.Id,
					"error":           err.Error(),
				})
			}
		}

		sub.CheckoutStartedAt = nil
		sub.CheckoutTargetPlan = nil
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			s.logger.Error("MAINTENANCE", "Failed to clear checkout markers", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
		}
	}
}
