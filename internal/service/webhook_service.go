// FILE: internal/service/webhook_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"resume-analyzer-be/internal/dto"
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/pkg/mailer"
	"resume-analyzer-be/internal/repository/memory"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/lifecycle"
	"resume-analyzer-be/pkg/webhook"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrMalformedPayload = errors.New("webhook payload is malformed")
)

// IWebhookService handles signed billing events from the payment gateway.
// Verification runs over the raw body before parsing; duplicates are
// absorbed by the cache fast path and, authoritatively, by the processed
// events ledger inside the transaction.
type IWebhookService interface {
	HandleBillingEvent(ctx context.Context, rawBody []byte, signature string) (*dto.WebhookAckResponse, error)
}

type webhookService struct {
	uowFactory unitofwork.RepositoryFactory
	verifier   *webhook.Verifier
	dedup      *memory.EventDedup
	lifecycle  *lifecycle.Manager
	mailer     mailer.IEmailService
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	verifier *webhook.Verifier,
	dedup *memory.EventDedup,
	lc *lifecycle.Manager,
	emailService mailer.IEmailService,
	publisher IPublisherService,
	logger logger.ILogger,
) IWebhookService {
	return &webhookService{
		uowFactory: uowFactory,
		verifier:   verifier,
		dedup:      dedup,
		lifecycle:  lc,
		mailer:     emailService,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *webhookService) HandleBillingEvent(ctx context.Context, rawBody []byte, signature string) (*dto.WebhookAckResponse, error) {
	if !s.verifier.Verify(rawBody, signature) {
		s.logger.Warn("WEBHOOK", "Rejected event with bad signature", map[string]interface{}{
			"body_bytes": len(rawBody),
		})
		return nil, ErrInvalidSignature
	}

	var req dto.BillingWebhookRequest
	if err := json.Unmarshal(rawBody, &req); err != nil {
		return nil, ErrMalformedPayload
	}
	if req.EventId == "" || req.EventType == "" || req.OrderRef == "" || req.OccurredAt.IsZero() {
		return nil, ErrMalformedPayload
	}

	// Fast path: a recently processed id skips the transaction entirely.
	if s.dedup != nil && s.dedup.Seen(ctx, req.EventId) {
		return &dto.WebhookAckResponse{Outcome: string(entity.OutcomeAlreadyProcessed)}, nil
	}

	event := &entity.BillingEvent{
		EventId:     req.EventId,
		EventType:   entity.BillingEventType(req.EventType),
		OccurredAt:  req.OccurredAt,
		OrderRef:    req.OrderRef,
		PlanId:      req.PlanId,
		PeriodEnd:   req.PeriodEnd,
		AutoConvert: req.AutoConvert,
		Payload:     req.Payload,
	}

	// Activation closes the conversion funnel. The pre-transition plan is
	// captured here because the transition overwrites it.
	var upgradeFrom *entity.Subscription
	if event.EventType == entity.BillingEventActivation && s.publisher != nil {
		prior, perr := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindByGatewayOrderRef(ctx, event.OrderRef)
		if perr == nil {
			upgradeFrom = prior
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	started := time.Now()
	outcome, err := s.lifecycle.ApplyBillingEvent(ctx, uow, event)
	if err != nil {
		s.logger.Error("WEBHOOK", "Failed to apply billing event", map[string]interface{}{
			"event_id":   req.EventId,
			"event_type": req.EventType,
			"error":      err.Error(),
		})
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.dedup != nil {
		s.dedup.Mark(ctx, req.EventId)
	}

	if outcome == entity.OutcomeApplied && event.EventType == entity.BillingEventTrialWillEnd {
		// The ledger dedupes this event, so the reminder goes out once.
		s.sendTrialReminder(ctx, event.OrderRef)
	}

	if outcome == entity.OutcomeApplied && event.EventType == entity.BillingEventActivation && upgradeFrom != nil {
		targetPlan := event.PlanId
		if targetPlan == "" {
			targetPlan = upgradeFrom.PlanId
		}
		s.publisher.Record(ctx, &entity.ConversionEvent{
			Id:         uuid.New(),
			UserId:     upgradeFrom.UserId,
			EventType:  entity.ConversionUpgradeCompleted,
			SourcePlan: upgradeFrom.PlanId,
			TargetPlan: targetPlan,
			OccurredAt: event.OccurredAt,
		})
	}

	s.logger.Info("WEBHOOK", "Billing event handled", map[string]interface{}{
		"event_id":   req.EventId,
		"event_type": req.EventType,
		"outcome":    outcome,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return &dto.WebhookAckResponse{Outcome: string(outcome)}, nil
}

func (s *webhookService) sendTrialReminder(ctx context.Context, orderRef string) {
	if s.mailer == nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindByGatewayOrderRef(ctx, orderRef)
	if err != nil || sub == nil || sub.Trial == nil || sub.GatewayCustomerRef == nil {
		return
	}

	days := int(math.Ceil(time.Until(sub.Trial.End).Hours() / 24))
	if days < 0 {
		days = 0
	}
	if err := s.mailer.SendTrialEndingReminder(*sub.GatewayCustomerRef, sub.PlanId, days); err != nil {
		s.logger.Warn("WEBHOOK", "Trial reminder email failed", map[string]interface{}{
			"subscription_id": sub.Id,
			"error":           err.Error(),
		})
	}
}
