// FILE: internal/service/entitlement_service.go
package service

import (
	"context"

	"resume-analyzer-be/internal/dto"
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/billing/catalog"
	"resume-analyzer-be/pkg/billing/entitlement"
	"resume-analyzer-be/pkg/billing/lifecycle"
	"resume-analyzer-be/pkg/billing/prompt"
	"resume-analyzer-be/pkg/billing/usage"

	"github.com/google/uuid"
)

type IEntitlementService interface {
	GetEntitlement(ctx context.Context, userId uuid.UUID) (*dto.EntitlementResponse, error)
	CheckFeature(ctx context.Context, userId uuid.UUID, feature string) (*dto.FeatureCheckResponse, error)
	CheckResource(ctx context.Context, userId uuid.UUID, req *dto.ResourceCheckRequest) (*dto.ResourceCheckResponse, error)
	ConsumeUsage(ctx context.Context, userId uuid.UUID, amount int) (*dto.ConsumeUsageResponse, *dto.UsageDeniedResponse, error)
	UsageSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error)
}

type entitlementService struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    *catalog.Catalog
	engine     *entitlement.Engine
	meter      *usage.Meter
	lifecycle  *lifecycle.Manager
	prompts    *prompt.Selector
	logger     logger.ILogger
}

func NewEntitlementService(
	uowFactory unitofwork.RepositoryFactory,
	cat *catalog.Catalog,
	engine *entitlement.Engine,
	meter *usage.Meter,
	lc *lifecycle.Manager,
	prompts *prompt.Selector,
	logger logger.ILogger,
) IEntitlementService {
	return &entitlementService{
		uowFactory: uowFactory,
		catalog:    cat,
		engine:     engine,
		meter:      meter,
		lifecycle:  lc,
		prompts:    prompts,
		logger:     logger,
	}
}

// resolve loads the user's subscription and its plan, lazily provisioning
// the free tier for users seen for the first time.
func (s *entitlementService) resolve(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.Subscription, catalog.Plan, error) {
	sub, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		return nil, catalog.Plan{}, err
	}
	if sub == nil {
		sub, err = s.lifecycle.CreateFreeSubscription(ctx, uow, userId)
		if err != nil {
			return nil, catalog.Plan{}, err
		}
	}
	plan, err := s.catalog.Get(sub.PlanId)
	if err != nil {
		// Subscription references a retired id the catalog no longer knows.
		// Degrade to free rather than failing every request.
		s.logger.Error("ENTITLEMENT", "Subscription references unknown plan", map[string]interface{}{
			"subscription_id": sub.Id,
			"plan_id":         sub.PlanId,
		})
		plan = s.catalog.FreePlan()
	}
	return sub, plan, nil
}

func (s *entitlementService) GetEntitlement(ctx context.Context, userId uuid.UUID) (*dto.EntitlementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, plan, err := s.resolve(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	features := make(map[string]bool)
	for _, key := range []catalog.FeatureKey{
		catalog.FeatureUnlimitedAnalyses, catalog.FeaturePremiumProcessing,
		catalog.FeatureAllExportFormats, catalog.FeaturePrioritySupport,
		catalog.FeatureTeamCollaboration, catalog.FeatureBulkOperations,
		catalog.FeatureAPIAccess, catalog.FeatureSingleSignOn,
		catalog.FeatureCustomBranding, catalog.FeatureUnlimitedSeats,
	} {
		features[string(key)] = s.engine.CanUseFeature(sub, plan, key)
	}

	remaining := plan.QuotaPerPeriod
	if remaining != catalog.Unlimited {
		if remaining -= sub.UsageThisPeriod; remaining < 0 {
			remaining = 0
		}
	}

	return &dto.EntitlementResponse{
		PlanId:          plan.Id,
		Status:          string(sub.Status),
		Features:        features,
		QuotaPerPeriod:  plan.QuotaPerPeriod,
		UsageThisPeriod: sub.UsageThisPeriod,
		Remaining:       remaining,
		FileSizeLimitMB: plan.FileSizeLimitMB,
		IncludedSeats:   plan.IncludedSeats,
		BulkUploadLimit: plan.BulkUploadLimit,
		APICallLimit:    plan.APICallLimit,
	}, nil
}

func (s *entitlementService) CheckFeature(ctx context.Context, userId uuid.UUID, feature string) (*dto.FeatureCheckResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, plan, err := s.resolve(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return &dto.FeatureCheckResponse{
		Feature: feature,
		Allowed: s.engine.CanUseFeature(sub, plan, catalog.FeatureKey(feature)),
	}, nil
}

func (s *entitlementService) CheckResource(ctx context.Context, userId uuid.UUID, req *dto.ResourceCheckRequest) (*dto.ResourceCheckResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, plan, err := s.resolve(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	decision := s.engine.CheckResourceLimit(sub, plan, entitlement.Resource(req.Resource), req.Requested)
	res := &dto.ResourceCheckResponse{
		Allowed:       decision.Allowed,
		Reason:        decision.Reason,
		Requested:     decision.Requested,
		Limit:         decision.Limit,
		SuggestedPlan: decision.SuggestedPlan,
	}
	if !decision.Allowed {
		res.Prompt = s.selectPrompt(ctx, userId, plan.Id, triggerForReason(decision.Reason))
	}
	return res, nil
}

// ConsumeUsage claims quota for one metered analysis. On denial the second
// return value carries the 429 payload including the upgrade prompt.
func (s *entitlementService) ConsumeUsage(ctx context.Context, userId uuid.UUID, amount int) (*dto.ConsumeUsageResponse, *dto.UsageDeniedResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, plan, err := s.resolve(ctx, uow, userId)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.meter.TryConsume(ctx, uow, sub, plan, amount)
	if err != nil {
		return nil, nil, err
	}
	if !result.Consumed {
		if !sub.CanMeter() {
			// Past-due and incomplete subscriptions need a payment fix, not
			// an upgrade pitch.
			return nil, &dto.UsageDeniedResponse{
				Reason: entitlement.ReasonSubscriptionInactive,
				Usage:  result.CurrentUsage,
				Limit:  result.Limit,
			}, nil
		}
		denied := &dto.UsageDeniedResponse{
			Reason:        entitlement.ReasonQuotaExceeded,
			Usage:         result.CurrentUsage,
			Limit:         result.Limit,
			SuggestedPlan: plan.Id,
		}
		if next, ok := s.catalog.NextTier(plan.Tier); ok {
			denied.SuggestedPlan = next.Id
		}
		denied.Prompt = s.selectPrompt(ctx, userId, plan.Id, prompt.TriggerUsageExceeded)
		return nil, denied, nil
	}

	res := &dto.ConsumeUsageResponse{
		Consumed:  true,
		NewUsage:  result.NewUsage,
		Limit:     result.Limit,
		Remaining: result.Remaining(),
	}
	if result.Limit != catalog.Unlimited && result.NewUsage*5 >= result.Limit*4 {
		// Past 80% of the quota: soft warning before the hard stop.
		res.Prompt = s.selectPrompt(ctx, userId, plan.Id, prompt.TriggerUsageWarning)
	}
	return res, nil, nil
}

func (s *entitlementService) UsageSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, plan, err := s.resolve(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	remaining := plan.QuotaPerPeriod
	if remaining != catalog.Unlimited {
		if remaining -= sub.UsageThisPeriod; remaining < 0 {
			remaining = 0
		}
	}
	return &dto.UsageSummaryResponse{
		PlanId:          plan.Id,
		UsageThisPeriod: sub.UsageThisPeriod,
		Limit:           plan.QuotaPerPeriod,
		Remaining:       remaining,
		PeriodStart:     sub.CurrentPeriodStart,
		PeriodEnd:       sub.CurrentPeriodEnd,
	}, nil
}

func (s *entitlementService) selectPrompt(ctx context.Context, userId uuid.UUID, planId, trigger string) *dto.PromptResponse {
	sel := s.prompts.Select(ctx, userId, planId, trigger)
	if sel == nil {
		return nil
	}
	return &dto.PromptResponse{
		PromptId:   sel.PromptId,
		Trigger:    sel.Trigger,
		TargetPlan: sel.TargetPlan,
		VariantKey: sel.Variant.Key,
		Title:      sel.Variant.Title,
		Body:       sel.Variant.Body,
		CTALabel:   sel.Variant.CTALabel,
	}
}

func triggerForReason(reason string) string {
	switch reason {
	case entitlement.ReasonBulkLimit:
		return prompt.TriggerBulkUpload
	case entitlement.ReasonQuotaExceeded:
		return prompt.TriggerUsageExceeded
	default:
		return prompt.TriggerPremiumFeature
	}
}
