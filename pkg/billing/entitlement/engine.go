// Package entitlement answers "can this subscription do X" as a pure
// function of the subscription and its plan. No I/O, no locking; safe from
// any concurrency context.
package entitlement

import (
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/pkg/billing/catalog"
)

// Denial reason codes, machine-readable so the upgrade-prompt flow can key
// off them.
const (
	ReasonSubscriptionInactive = "subscription_inactive"
	ReasonFeatureNotInPlan     = "feature_not_in_plan"
	ReasonFileTooLarge         = "file_too_large"
	ReasonSeatLimit            = "seat_limit_reached"
	ReasonBulkLimit            = "bulk_upload_limit"
	ReasonQuotaExceeded        = "quota_exceeded"
)

type Resource string

const (
	ResourceFileSizeMB Resource = "file_size_mb"
	ResourceSeats      Resource = "seats"
	ResourceBulkUpload Resource = "bulk_upload"
)

// Decision is the outcome of a resource-limit check. A denial is a normal
// return value, not an error; it carries enough structure for the caller to
// render an upgrade prompt.
type Decision struct {
	Allowed       bool
	Reason        string
	Requested     int
	Limit         int
	SuggestedPlan string
}

func allowed() Decision {
	return Decision{Allowed: true}
}

type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// CanUseFeature gates a boolean feature: the subscription must be in a
// usable status and the plan must carry the flag. Unknown feature keys are
// false, never an error.
func (e *Engine) CanUseFeature(sub *entity.Subscription, plan catalog.Plan, key catalog.FeatureKey) bool {
	if sub == nil || !sub.CanMeter() {
		return false
	}
	return plan.HasFeature(key)
}

// CheckResourceLimit gates scalar limits (file size, seats, bulk-upload
// batch size) against the plan's ceilings.
func (e *Engine) CheckResourceLimit(sub *entity.Subscription, plan catalog.Plan, resource Resource, requested int) Decision {
	if sub == nil || !sub.CanMeter() {
		return Decision{
			Allowed:       false,
			Reason:        ReasonSubscriptionInactive,
			Requested:     requested,
			SuggestedPlan: plan.Id,
		}
	}

	switch resource {
	case ResourceFileSizeMB:
		if requested > plan.FileSizeLimitMB {
			return e.denied(plan, ReasonFileTooLarge, requested, plan.FileSizeLimitMB)
		}
	case ResourceSeats:
		if plan.IncludedSeats != catalog.Unlimited && plan.PerExtraSeatPrice == nil && requested > plan.IncludedSeats {
			return e.denied(plan, ReasonSeatLimit, requested, plan.IncludedSeats)
		}
	case ResourceBulkUpload:
		if !plan.HasFeature(catalog.FeatureBulkOperations) && requested > 1 {
			return e.denied(plan, ReasonBulkLimit, requested, 1)
		}
		if plan.BulkUploadLimit != catalog.Unlimited && requested > plan.BulkUploadLimit {
			return e.denied(plan, ReasonBulkLimit, requested, plan.BulkUploadLimit)
		}
	}
	return allowed()
}

func (e *Engine) denied(plan catalog.Plan, reason string, requested, limit int) Decision {
	suggested := plan.Id
	if next, ok := e.catalog.NextTier(plan.Tier); ok {
		suggested = next.Id
	}
	return Decision{
		Allowed:       false,
		Reason:        reason,
		Requested:     requested,
		Limit:         limit,
		SuggestedPlan: suggested,
	}
}
