package mapper

import (
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	var trial *entity.TrialPeriod
	if s.TrialStart != nil && s.TrialEnd != nil {
		trial = &entity.TrialPeriod{Start: *s.TrialStart, End: *s.TrialEnd}
	}
	return &entity.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		PlanId:                 s.PlanId,
		Status:                 entity.SubscriptionStatus(s.Status),
		BillingCycle:           entity.BillingCycle(s.BillingCycle),
		CurrentPeriodStart:     s.CurrentPeriodStart,
		CurrentPeriodEnd:       s.CurrentPeriodEnd,
		Trial:                  trial,
		UsageThisPeriod:        s.UsageThisPeriod,
		CancelAtPeriodEnd:      s.CancelAtPeriodEnd,
		CancelledAt:            s.CancelledAt,
		AutoConvert:            s.AutoConvert,
		GatewayCustomerRef:     s.GatewayCustomerRef,
		GatewaySubscriptionRef: s.GatewaySubscriptionRef,
		CheckoutStartedAt:      s.CheckoutStartedAt,
		CheckoutTargetPlan:     s.CheckoutTargetPlan,
		LastEventAt:            s.LastEventAt,
		Version:                s.Version,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	var trialStart, trialEnd *time.Time
	if s.Trial != nil {
		start, end := s.Trial.Start, s.Trial.End
		trialStart, trialEnd = &start, &end
	}
	return &model.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		PlanId:                 s.PlanId,
		Status:                 string(s.Status),
		BillingCycle:           string(s.BillingCycle),
		CurrentPeriodStart:     s.CurrentPeriodStart,
		CurrentPeriodEnd:       s.CurrentPeriodEnd,
		TrialStart:             trialStart,
		TrialEnd:               trialEnd,
		UsageThisPeriod:        s.UsageThisPeriod,
		CancelAtPeriodEnd:      s.CancelAtPeriodEnd,
		CancelledAt:            s.CancelledAt,
		AutoConvert:            s.AutoConvert,
		GatewayCustomerRef:     s.GatewayCustomerRef,
		GatewaySubscriptionRef: s.GatewaySubscriptionRef,
		CheckoutStartedAt:      s.CheckoutStartedAt,
		CheckoutTargetPlan:     s.CheckoutTargetPlan,
		LastEventAt:            s.LastEventAt,
		Version:                s.Version,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}
