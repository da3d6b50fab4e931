// FILE: internal/service/subscription_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-analyzer-be/internal/dto"
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/catalog"
	"resume-analyzer-be/pkg/billing/lifecycle"
	"resume-analyzer-be/pkg/billing/pricing"
	"resume-analyzer-be/pkg/billing/trial"
	"resume-analyzer-be/pkg/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionService interface {
	GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID, immediate bool) (*dto.SubscriptionStatusResponse, error)
	StartTrial(ctx context.Context, userId uuid.UUID, req *dto.StartTrialRequest) (*dto.SubscriptionStatusResponse, error)
	TrialStatus(ctx context.Context, userId uuid.UUID) (*dto.TrialStatusResponse, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    *catalog.Catalog
	calculator *pricing.Calculator
	lifecycle  *lifecycle.Manager
	trials     *trial.Manager
	gateway    gateway.Gateway
	publisher  IPublisherService
	clientURL  string
	logger     logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	cat *catalog.Catalog,
	calculator *pricing.Calculator,
	lc *lifecycle.Manager,
	trials *trial.Manager,
	gw gateway.Gateway,
	publisher IPublisherService,
	clientURL string,
	logger logger.ILogger,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		catalog:    cat,
		calculator: calculator,
		lifecycle:  lc,
		trials:     trials,
		gateway:    gw,
		publisher:  publisher,
		clientURL:  clientURL,
		logger:     logger,
	}
}

func (s *subscriptionService) GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub, err = s.lifecycle.CreateFreeSubscription(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}
	return s.toStatusResponse(sub), nil
}

// Checkout opens a hosted payment session for a plan upgrade. The upgrade
// is staged on the existing subscription row (order ref plus checkout
// markers): the plan only rebinds when the gateway's activation event
// arrives on the webhook.
func (s *subscriptionService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	plan, err := s.catalog.Get(req.PlanId)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "plan not found")
	}
	if plan.Tier == catalog.TierFree {
		return nil, fiber.NewError(fiber.StatusBadRequest, "free plan needs no checkout")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub, err = s.lifecycle.CreateFreeSubscription(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}
	if !s.catalog.CanUpgrade(sub.PlanId, req.PlanId) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "requested plan is not an upgrade")
	}

	cycle := entity.BillingCycle(req.BillingCycle)
	quote, err := s.calculator.Price(req.PlanId, cycle, req.Seats, req.Region)
	if err != nil {
		return nil, err
	}

	orderRef := fmt.Sprintf("sub-%s-%s", sub.Id, uuid.New().String()[:8])
	session, err := s.gateway.CreateCheckout(ctx, &gateway.CheckoutRequest{
		OrderRef:      orderRef,
		PlanId:        plan.Id,
		PlanName:      plan.Name,
		Amount:        quote.Amount,
		Currency:      quote.Currency,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		FinishURL:     fmt.Sprintf("%s/app?payment=success", s.clientURL),
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	targetPlan := plan.Id
	customerRef := req.CustomerEmail
	sub.BillingCycle = cycle
	sub.GatewayCustomerRef = &customerRef
	sub.GatewaySubscriptionRef = &orderRef
	sub.CheckoutStartedAt = &now
	sub.CheckoutTargetPlan = &targetPlan
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Record(ctx, &entity.ConversionEvent{
			Id:         uuid.New(),
			UserId:     userId,
			EventType:  entity.ConversionCheckoutStarted,
			SourcePlan: sub.PlanId,
			TargetPlan: plan.Id,
			OccurredAt: now,
		})
	}

	s.logger.Info("SUBSCRIPTION", "Checkout session created", map[string]interface{}{
		"subscription_id": sub.Id,
		"order_ref":       orderRef,
		"target_plan":     plan.Id,
	})
	return &dto.CheckoutResponse{
		OrderRef:    orderRef,
		SnapToken:   session.Token,
		RedirectUrl: session.RedirectURL,
		Amount:      quote.Amount,
		Currency:    quote.Currency,
	}, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId uuid.UUID, immediate bool) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.lifecycle.RequestCancel(ctx, uow, userId, immediate)
	if err != nil {
		if errors.Is(err, lifecycle.ErrSubscriptionNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "no active subscription")
		}
		return nil, err
	}

	return s.toStatusResponse(sub), nil
}

func (s *subscriptionService) StartTrial(ctx context.Context, userId uuid.UUID, req *dto.StartTrialRequest) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		if _, err = s.lifecycle.CreateFreeSubscription(ctx, uow, userId); err != nil {
			return nil, err
		}
	}

	sourcePlan := ""
	if sub != nil {
		sourcePlan = sub.PlanId
	}

	sub, err = s.lifecycle.StartTrial(ctx, uow, userId, req.PlanId, req.AutoConvert)
	if err != nil {
		if errors.Is(err, lifecycle.ErrTrialNotEligible) {
			return nil, fiber.NewError(fiber.StatusConflict, "not eligible for a trial on this plan")
		}
		if errors.Is(err, catalog.ErrPlanNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "plan not found")
		}
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Record(ctx, &entity.ConversionEvent{
			Id:         uuid.New(),
			UserId:     userId,
			EventType:  entity.ConversionTrialStarted,
			SourcePlan: sourcePlan,
			TargetPlan: sub.PlanId,
			OccurredAt: time.Now(),
		})
	}
	return s.toStatusResponse(sub), nil
}

func (s *subscriptionService) TrialStatus(ctx context.Context, userId uuid.UUID) (*dto.TrialStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	status, err := s.trials.GetStatus(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	// Report per-plan eligibility alongside the current trial state.
	eligible := make(map[string]bool)
	for _, p := range s.catalog.List() {
		if !p.Trialable() {
			continue
		}
		ok, err := s.trials.IsEligible(ctx, uow, userId, p.Id)
		if err != nil {
			return nil, err
		}
		eligible[p.Id] = ok
	}

	return &dto.TrialStatusResponse{
		Active:         status.Active,
		PlanId:         status.PlanId,
		DaysRemaining:  status.DaysRemaining,
		UsageThisTrial: status.UsageThisTrial,
		AutoConvert:    status.AutoConvert,
		EndsAt:         status.EndsAt,
		Eligible:       eligible,
	}, nil
}

func (s *subscriptionService) toStatusResponse(sub *entity.Subscription) *dto.SubscriptionStatusResponse {
	planName := sub.PlanId
	if plan, err := s.catalog.Get(sub.PlanId); err == nil {
		planName = plan.Name
	}
	res := &dto.SubscriptionStatusResponse{
		SubscriptionId:     sub.Id,
		PlanId:             sub.PlanId,
		PlanName:           planName,
		Status:             string(sub.Status),
		BillingCycle:       string(sub.BillingCycle),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}
	if sub.Trial != nil {
		end := sub.Trial.End
		res.TrialEndsAt = &end
	}
	return res
}
