// FILE: internal/service/entitlement_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/billingtest"
	"resume-analyzer-be/pkg/billing/catalog"
	"resume-analyzer-be/pkg/billing/entitlement"
	"resume-analyzer-be/pkg/billing/lifecycle"
	"resume-analyzer-be/pkg/billing/prompt"
	"resume-analyzer-be/pkg/billing/usage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntitlementService(uow *billingtest.FakeUnitOfWork) IEntitlementService {
	cat := catalog.New()
	meter := usage.NewMeter(billingtest.NopLogger{})
	lc := lifecycle.NewManager(cat, meter, billingtest.NopLogger{})
	selector := prompt.NewSelector(cat, &recordingPublisher{}, billingtest.NopLogger{})
	return NewEntitlementService(&fakeFactory{uow: uow}, cat, entitlement.NewEngine(cat), meter, lc, selector, billingtest.NopLogger{})
}

func seedSubWithStatus(t *testing.T, uow *billingtest.FakeUnitOfWork, planId string, status entity.SubscriptionStatus, used int) *entity.Subscription {
	t.Helper()
	now := time.Now()
	sub := &entity.Subscription{
		Id:                 uuid.New(),
		UserId:             uuid.New(),
		PlanId:             planId,
		Status:             status,
		BillingCycle:       entity.BillingCycleMonthly,
		CurrentPeriodStart: now.AddDate(0, 0, -10),
		CurrentPeriodEnd:   now.AddDate(0, 0, 20),
		UsageThisPeriod:    used,
		Version:            1,
	}
	require.NoError(t, uow.Subs.Create(context.Background(), sub))
	return sub
}

func TestConsumeUsageDeniedInactiveSubscription(t *testing.T) {
	uow := billingtest.NewFakeUnitOfWork()
	sub := seedSubWithStatus(t, uow, "professional", entity.SubscriptionStatusPastDue, 2)
	svc := newEntitlementService(uow)

	res, denied, err := svc.ConsumeUsage(context.Background(), sub.UserId, 1)
	require.NoError(t, err)
	require.Nil(t, res)
	require.NotNil(t, denied)

	// A payment problem is not a quota problem: no upgrade suggestion, no
	// upsell prompt.
	assert.Equal(t, entitlement.ReasonSubscriptionInactive, denied.Reason)
	assert.Empty(t, denied.SuggestedPlan)
	assert.Nil(t, denied.Prompt)
	assert.Equal(t, 2, denied.Usage)
}

func TestConsumeUsageDeniedQuotaExceeded(t *testing.T) {
	uow := billingtest.NewFakeUnitOfWork()
	free := catalog.New().FreePlan()
	sub := seedSubWithStatus(t, uow, free.Id, entity.SubscriptionStatusActive, free.QuotaPerPeriod)
	svc := newEntitlementService(uow)

	res, denied, err := svc.ConsumeUsage(context.Background(), sub.UserId, 1)
	require.NoError(t, err)
	require.Nil(t, res)
	require.NotNil(t, denied)

	assert.Equal(t, entitlement.ReasonQuotaExceeded, denied.Reason)
	assert.Equal(t, free.QuotaPerPeriod, denied.Usage)
	assert.Equal(t, free.QuotaPerPeriod, denied.Limit)
	assert.Equal(t, "professional", denied.SuggestedPlan)
	require.NotNil(t, denied.Prompt)
	assert.Equal(t, "professional", denied.Prompt.TargetPlan)
}
