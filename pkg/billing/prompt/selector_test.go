// FILE: pkg/billing/prompt/selector_test.go
package prompt

import (
	"context"
	"testing"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/billingtest"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []*entity.ConversionEvent
}

func (r *recordingSink) Record(ctx context.Context, event *entity.ConversionEvent) {
	r.events = append(r.events, event)
}

func newSelector(rec Recorder) *Selector {
	return NewSelector(catalog.New(), rec, billingtest.NopLogger{})
}

func TestSelectByTrigger(t *testing.T) {
	sel := newSelector(nil)
	userId := uuid.New()

	tests := []struct {
		name       string
		plan       string
		trigger    string
		wantPrompt string
		wantTarget string
	}{
		{"free over quota", "free", TriggerUsageExceeded, PromptUsageLimitExceeded, "professional"},
		{"free near quota", "free", TriggerUsageWarning, PromptUsageLimitWarning, "professional"},
		{"pro bulk gate", "professional", TriggerBulkUpload, PromptBulkUploadGate, "business"},
		{"free premium gate", "free", TriggerPremiumFeature, PromptPremiumAIGate, "professional"},
		{"pro api gate", "professional", TriggerAPIAccess, PromptAPIAccessGate, "business"},
		{"trial ending", "free", TriggerTrialEnding, PromptTrialReminder, "professional"},
		{"abandoned checkout", "free", TriggerAbandonedCheckout, PromptAbandonedCart, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sel.Select(context.Background(), userId, tt.plan, tt.trigger)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPrompt, got.PromptId)
			assert.Equal(t, tt.trigger, got.Trigger)
			assert.Equal(t, tt.wantTarget, got.TargetPlan)
			assert.NotEmpty(t, got.Variant.Key)
			assert.NotEmpty(t, got.Variant.Title)
			assert.NotEmpty(t, got.Variant.CTALabel)
		})
	}
}

func TestSelectSkips(t *testing.T) {
	sel := newSelector(nil)
	userId := uuid.New()

	tests := []struct {
		name    string
		plan    string
		trigger string
	}{
		{"unknown trigger", "free", "password_reset"},
		{"enterprise never nudged", "enterprise", TriggerUsageExceeded},
		{"already on target plan", "professional", TriggerUsageExceeded},
		{"above target plan", "business", TriggerPremiumFeature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, sel.Select(context.Background(), userId, tt.plan, tt.trigger))
		})
	}
}

func TestSelectRecordsImpression(t *testing.T) {
	sink := &recordingSink{}
	sel := newSelector(sink)
	userId := uuid.New()

	got := sel.Select(context.Background(), userId, "free", TriggerUsageExceeded)
	require.NotNil(t, got)
	require.Len(t, sink.events, 1)

	ev := sink.events[0]
	assert.Equal(t, entity.ConversionPromptShown, ev.EventType)
	assert.Equal(t, userId, ev.UserId)
	assert.Equal(t, got.PromptId, ev.PromptId)
	assert.Equal(t, got.Variant.Key, ev.VariantKey)
	assert.Equal(t, "free", ev.SourcePlan)
	assert.Equal(t, "professional", ev.TargetPlan)
}

func TestSelectSkippedPromptNotRecorded(t *testing.T) {
	sink := &recordingSink{}
	sel := newSelector(sink)

	assert.Nil(t, sel.Select(context.Background(), uuid.New(), "enterprise", TriggerUsageExceeded))
	assert.Empty(t, sink.events)
}

func TestBucketVariant(t *testing.T) {
	userId := uuid.New()

	// Stable across calls.
	first := BucketVariant(userId, PromptUsageLimitExceeded, 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BucketVariant(userId, PromptUsageLimitExceeded, 3))
	}

	// Always within range.
	for i := 0; i < 100; i++ {
		b := BucketVariant(uuid.New(), PromptUsageLimitExceeded, 3)
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 3)
	}

	// Single-variant prompts short-circuit to arm zero.
	assert.Zero(t, BucketVariant(userId, PromptAPIAccessGate, 1))
}

func TestBucketVariantSpreadsUsers(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 64; i++ {
		seen[BucketVariant(uuid.New(), PromptUsageLimitExceeded, 3)] = true
	}
	// 64 random users across 3 arms hit every arm.
	assert.Len(t, seen, 3)
}

func TestVariantSelectionMatchesBucket(t *testing.T) {
	sel := newSelector(nil)
	userId := uuid.New()

	got := sel.Select(context.Background(), userId, "free", TriggerUsageExceeded)
	require.NotNil(t, got)

	want := definitions()[1].Variants[BucketVariant(userId, PromptUsageLimitExceeded, 3)]
	assert.Equal(t, want, got.Variant)
}
