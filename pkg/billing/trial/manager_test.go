// FILE: pkg/billing/trial/manager_test.go
package trial

import (
	"context"
	"testing"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/billingtest"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newManager() *Manager {
	m := NewManager(catalog.New(), billingtest.NopLogger{})
	m.Now = func() time.Time { return baseTime }
	return m
}

func seedSub(t *testing.T, uow *billingtest.FakeUnitOfWork, sub *entity.Subscription) *entity.Subscription {
	t.Helper()
	if sub.Id == uuid.Nil {
		sub.Id = uuid.New()
	}
	if sub.Version == 0 {
		sub.Version = 1
	}
	require.NoError(t, uow.Subs.Create(context.Background(), sub))
	return sub
}

func TestIsEligible(t *testing.T) {
	mgr := newManager()

	tests := []struct {
		name    string
		planId  string
		seed    func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID)
		want    bool
		wantErr error
	}{
		{
			name:   "fresh user professional",
			planId: "professional",
			want:   true,
		},
		{
			name:    "free not trialable",
			planId:  "free",
			want:    false,
			wantErr: nil,
		},
		{
			name:    "unknown plan",
			planId:  "platinum",
			want:    false,
			wantErr: catalog.ErrPlanNotFound,
		},
		{
			name:   "spent trial blocks same plan",
			planId: "professional",
			seed: func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID) {
				seedSub(t, uow, &entity.Subscription{
					UserId: userId,
					PlanId: "professional",
					Status: entity.SubscriptionStatusCancelled,
					Trial:  &entity.TrialPeriod{Start: baseTime.AddDate(0, -2, 0), End: baseTime.AddDate(0, -2, 14)},
				})
			},
			want: false,
		},
		{
			name:   "spent professional leaves business open",
			planId: "business",
			seed: func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID) {
				seedSub(t, uow, &entity.Subscription{
					UserId: userId,
					PlanId: "professional",
					Status: entity.SubscriptionStatusCancelled,
					Trial:  &entity.TrialPeriod{Start: baseTime.AddDate(0, -2, 0), End: baseTime.AddDate(0, -2, 14)},
				})
			},
			want: true,
		},
		{
			name:   "already trialing blocks everything",
			planId: "business",
			seed: func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID) {
				seedSub(t, uow, &entity.Subscription{
					UserId: userId,
					PlanId: "professional",
					Status: entity.SubscriptionStatusTrialing,
					Trial:  &entity.TrialPeriod{Start: baseTime, End: baseTime.AddDate(0, 0, 14)},
				})
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := billingtest.NewFakeUnitOfWork()
			userId := uuid.New()
			if tt.seed != nil {
				tt.seed(t, uow, userId)
			}

			got, err := mgr.IsEligible(context.Background(), uow, userId, tt.planId)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStatusActiveTrial(t *testing.T) {
	mgr := newManager()
	uow := billingtest.NewFakeUnitOfWork()
	userId := uuid.New()

	end := baseTime.Add(25 * time.Hour)
	seedSub(t, uow, &entity.Subscription{
		UserId:          userId,
		PlanId:          "professional",
		Status:          entity.SubscriptionStatusTrialing,
		Trial:           &entity.TrialPeriod{Start: baseTime.AddDate(0, 0, -13), End: end},
		UsageThisPeriod: 9,
		AutoConvert:     true,
	})

	status, err := mgr.GetStatus(context.Background(), uow, userId)
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, "professional", status.PlanId)
	// 25 hours left rounds up to two days.
	assert.Equal(t, 2, status.DaysRemaining)
	assert.Equal(t, 9, status.UsageThisTrial)
	assert.True(t, status.AutoConvert)
	require.NotNil(t, status.EndsAt)
	assert.Equal(t, end, *status.EndsAt)
}

func TestGetStatusDaysRemainingRoundsUp(t *testing.T) {
	mgr := newManager()
	uow := billingtest.NewFakeUnitOfWork()
	userId := uuid.New()

	seedSub(t, uow, &entity.Subscription{
		UserId: userId,
		PlanId: "professional",
		Status: entity.SubscriptionStatusTrialing,
		Trial:  &entity.TrialPeriod{Start: baseTime.AddDate(0, 0, -14), End: baseTime.Add(time.Hour)},
	})

	status, err := mgr.GetStatus(context.Background(), uow, userId)
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, 1, status.DaysRemaining)
}

func TestGetStatusNoTrial(t *testing.T) {
	mgr := newManager()

	tests := []struct {
		name string
		seed func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID)
	}{
		{"no subscription", nil},
		{
			"active paid plan",
			func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID) {
				seedSub(t, uow, &entity.Subscription{
					UserId: userId,
					PlanId: "professional",
					Status: entity.SubscriptionStatusActive,
				})
			},
		},
		{
			"trial window already closed",
			func(t *testing.T, uow *billingtest.FakeUnitOfWork, userId uuid.UUID) {
				seedSub(t, uow, &entity.Subscription{
					UserId: userId,
					PlanId: "professional",
					Status: entity.SubscriptionStatusTrialing,
					Trial:  &entity.TrialPeriod{Start: baseTime.AddDate(0, 0, -15), End: baseTime.Add(-time.Minute)},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := billingtest.NewFakeUnitOfWork()
			userId := uuid.New()
			if tt.seed != nil {
				tt.seed(t, uow, userId)
			}

			status, err := mgr.GetStatus(context.Background(), uow, userId)
			require.NoError(t, err)
			assert.False(t, status.Active)
		})
	}
}

func TestExpireStaleTrials(t *testing.T) {
	mgr := newManager()
	uow := billingtest.NewFakeUnitOfWork()

	converting := seedSub(t, uow, &entity.Subscription{
		UserId:          uuid.New(),
		PlanId:          "professional",
		Status:          entity.SubscriptionStatusTrialing,
		BillingCycle:    entity.BillingCycleMonthly,
		Trial:           &entity.TrialPeriod{Start: baseTime.AddDate(0, 0, -15), End: baseTime.Add(-time.Hour)},
		UsageThisPeriod: 20,
		AutoConvert:     true,
	})
	lapsing := seedSub(t, uow, &entity.Subscription{
		UserId:       uuid.New(),
		PlanId:       "business",
		Status:       entity.SubscriptionStatusTrialing,
		BillingCycle: entity.BillingCycleAnnual,
		Trial:        &entity.TrialPeriod{Start: baseTime.AddDate(0, 0, -15), End: baseTime.Add(-time.Hour)},
	})
	stillRunning := seedSub(t, uow, &entity.Subscription{
		UserId: uuid.New(),
		PlanId: "professional",
		Status: entity.SubscriptionStatusTrialing,
		Trial:  &entity.TrialPeriod{Start: baseTime, End: baseTime.AddDate(0, 0, 14)},
	})

	processed, err := mgr.ExpireStaleTrials(context.Background(), uow)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	converted := uow.Subs.Get(converting.Id)
	assert.Equal(t, entity.SubscriptionStatusActive, converted.Status)
	assert.Zero(t, converted.UsageThisPeriod)
	assert.Equal(t, baseTime.AddDate(0, 1, 0), converted.CurrentPeriodEnd)

	cancelled := uow.Subs.Get(lapsing.Id)
	assert.Equal(t, entity.SubscriptionStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, baseTime, *cancelled.CancelledAt)

	assert.Equal(t, entity.SubscriptionStatusTrialing, uow.Subs.Get(stillRunning.Id).Status)
}
