// FILE: pkg/billing/prompt/selector.go
// Package prompt selects contextual upgrade nudges with deterministic A/B
// variant assignment. Selection is pure; recording prompt analytics happens
// through a Recorder the transport layer injects, fire-and-forget.
package prompt

import (
	"context"
	"hash/fnv"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/pkg/billing/catalog"

	"github.com/google/uuid"
)

// Trigger contexts, matched against Prompt.Trigger.
const (
	TriggerUsageWarning      = "usage_warning"
	TriggerUsageExceeded     = "usage_exceeded"
	TriggerBulkUpload        = "bulk_upload"
	TriggerPremiumFeature    = "premium_feature"
	TriggerAPIAccess         = "api_access"
	TriggerTrialEnding       = "trial_ending"
	TriggerPeriodic          = "periodic"
	TriggerAbandonedCheckout = "abandoned_checkout"
)

// Selection is a prompt with one variant resolved for the user.
type Selection struct {
	PromptId   string  `json:"prompt_id"`
	Trigger    string  `json:"trigger"`
	TargetPlan string  `json:"target_plan,omitempty"`
	Variant    Variant `json:"variant"`
}

// Recorder persists conversion analytics off the request path.
type Recorder interface {
	Record(ctx context.Context, event *entity.ConversionEvent)
}

type Selector struct {
	catalog  *catalog.Catalog
	prompts  map[string]Prompt
	recorder Recorder
	logger   logger.ILogger
}

func NewSelector(cat *catalog.Catalog, recorder Recorder, logger logger.ILogger) *Selector {
	prompts := make(map[string]Prompt)
	for _, p := range definitions() {
		prompts[p.Trigger] = p
	}
	return &Selector{catalog: cat, prompts: prompts, recorder: recorder, logger: logger}
}

// Select picks the prompt for a trigger context, or nil when no prompt
// applies. Enterprise users never see upgrade nudges; users already on or
// above a prompt's target plan are skipped too.
func (s *Selector) Select(ctx context.Context, userId uuid.UUID, currentPlanId, trigger string) *Selection {
	p, ok := s.prompts[trigger]
	if !ok {
		return nil
	}
	if len(p.Variants) == 0 {
		return nil
	}

	current, err := s.catalog.Get(currentPlanId)
	if err == nil {
		if current.Tier == catalog.TierEnterprise {
			return nil
		}
		if p.TargetPlan != "" {
			if target, terr := s.catalog.Get(p.TargetPlan); terr == nil && current.Rank() >= target.Rank() {
				return nil
			}
		}
	}

	variant := p.Variants[BucketVariant(userId, p.Id, len(p.Variants))]
	sel := &Selection{
		PromptId:   p.Id,
		Trigger:    p.Trigger,
		TargetPlan: p.TargetPlan,
		Variant:    variant,
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, &entity.ConversionEvent{
			Id:         uuid.New(),
			UserId:     userId,
			EventType:  entity.ConversionPromptShown,
			PromptId:   p.Id,
			VariantKey: variant.Key,
			SourcePlan: currentPlanId,
			TargetPlan: p.TargetPlan,
		})
	}
	return sel
}

// BucketVariant assigns a user to an A/B arm. FNV-1a over userId and
// promptId, so the assignment is stable across sessions and independent
// across prompts.
func BucketVariant(userId uuid.UUID, promptId string, variants int) int {
	if variants < 2 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(userId.String()))
	h.Write([]byte(promptId))
	return int(h.Sum32() % uint32(variants))
}
