// FILE: pkg/billing/entitlement/engine_test.go
package entitlement

import (
	"testing"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subWithStatus(status entity.SubscriptionStatus) *entity.Subscription {
	return &entity.Subscription{Status: status}
}

func mustPlan(t *testing.T, cat *catalog.Catalog, id string) catalog.Plan {
	t.Helper()
	plan, err := cat.Get(id)
	require.NoError(t, err)
	return plan
}

func TestCanUseFeature(t *testing.T) {
	cat := catalog.New()
	engine := NewEngine(cat)

	tests := []struct {
		name   string
		status entity.SubscriptionStatus
		planId string
		key    catalog.FeatureKey
		want   bool
	}{
		{"active pro has premium", entity.SubscriptionStatusActive, "professional", catalog.FeaturePremiumProcessing, true},
		{"trialing counts as usable", entity.SubscriptionStatusTrialing, "professional", catalog.FeaturePremiumProcessing, true},
		{"past_due blocks features", entity.SubscriptionStatusPastDue, "professional", catalog.FeaturePremiumProcessing, false},
		{"cancelled blocks features", entity.SubscriptionStatusCancelled, "enterprise", catalog.FeatureSingleSignOn, false},
		{"incomplete blocks features", entity.SubscriptionStatusIncomplete, "business", catalog.FeatureAPIAccess, false},
		{"free has no premium", entity.SubscriptionStatusActive, "free", catalog.FeaturePremiumProcessing, false},
		{"pro has no bulk", entity.SubscriptionStatusActive, "professional", catalog.FeatureBulkOperations, false},
		{"business has no sso", entity.SubscriptionStatusActive, "business", catalog.FeatureSingleSignOn, false},
		{"unknown key is false", entity.SubscriptionStatusActive, "enterprise", catalog.FeatureKey("time_travel"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := mustPlan(t, cat, tt.planId)
			got := engine.CanUseFeature(subWithStatus(tt.status), plan, tt.key)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanUseFeatureNilSubscription(t *testing.T) {
	cat := catalog.New()
	engine := NewEngine(cat)
	plan := mustPlan(t, cat, "enterprise")
	assert.False(t, engine.CanUseFeature(nil, plan, catalog.FeaturePremiumProcessing))
}

func TestCheckResourceLimit(t *testing.T) {
	cat := catalog.New()
	engine := NewEngine(cat)

	tests := []struct {
		name          string
		planId        string
		resource      Resource
		requested     int
		wantAllowed   bool
		wantReason    string
		wantLimit     int
		wantSuggested string
	}{
		{"free 5mb ok", "free", ResourceFileSizeMB, 5, true, "", 0, ""},
		{"free 6mb denied", "free", ResourceFileSizeMB, 6, false, ReasonFileTooLarge, 5, "professional"},
		{"pro 50mb ok", "professional", ResourceFileSizeMB, 50, true, "", 0, ""},
		{"pro 51mb denied", "professional", ResourceFileSizeMB, 51, false, ReasonFileTooLarge, 50, "business"},
		{"enterprise 100mb ok", "enterprise", ResourceFileSizeMB, 100, true, "", 0, ""},
		{"free second seat denied", "free", ResourceSeats, 2, false, ReasonSeatLimit, 1, "professional"},
		{"business seats buyable", "business", ResourceSeats, 12, true, "", 0, ""},
		{"enterprise seats unlimited", "enterprise", ResourceSeats, 500, true, "", 0, ""},
		{"free bulk denied", "free", ResourceBulkUpload, 2, false, ReasonBulkLimit, 1, "professional"},
		{"pro bulk denied", "professional", ResourceBulkUpload, 10, false, ReasonBulkLimit, 1, "business"},
		{"business bulk within limit", "business", ResourceBulkUpload, 100, true, "", 0, ""},
		{"business bulk over limit", "business", ResourceBulkUpload, 101, false, ReasonBulkLimit, 100, "enterprise"},
		{"single upload always ok", "free", ResourceBulkUpload, 1, true, "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := mustPlan(t, cat, tt.planId)
			sub := subWithStatus(entity.SubscriptionStatusActive)
			dec := engine.CheckResourceLimit(sub, plan, tt.resource, tt.requested)
			assert.Equal(t, tt.wantAllowed, dec.Allowed)
			if !tt.wantAllowed {
				assert.Equal(t, tt.wantReason, dec.Reason)
				assert.Equal(t, tt.requested, dec.Requested)
				assert.Equal(t, tt.wantLimit, dec.Limit)
				assert.Equal(t, tt.wantSuggested, dec.SuggestedPlan)
			}
		})
	}
}

func TestCheckResourceLimitInactive(t *testing.T) {
	cat := catalog.New()
	engine := NewEngine(cat)
	plan := mustPlan(t, cat, "professional")

	dec := engine.CheckResourceLimit(subWithStatus(entity.SubscriptionStatusPastDue), plan, ResourceFileSizeMB, 1)
	assert.False(t, dec.Allowed)
	assert.Equal(t, ReasonSubscriptionInactive, dec.Reason)
}

func TestSuggestedPlanTopTier(t *testing.T) {
	cat := catalog.New()
	engine := NewEngine(cat)
	plan := mustPlan(t, cat, "enterprise")

	dec := engine.CheckResourceLimit(subWithStatus(entity.SubscriptionStatusActive), plan, ResourceFileSizeMB, 101)
	assert.False(t, dec.Allowed)
	// No tier above enterprise, so the denial points back at the same plan.
	assert.Equal(t, "enterprise", dec.SuggestedPlan)
}
