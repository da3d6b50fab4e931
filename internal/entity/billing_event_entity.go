// FILE: internal/entity/billing_event_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type BillingEventType string

const (
	BillingEventActivation      BillingEventType = "subscription.activated"
	BillingEventChargeSucceeded BillingEventType = "charge.succeeded"
	BillingEventChargeFailed    BillingEventType = "charge.failed"
	BillingEventCancellation    BillingEventType = "subscription.cancelled"
	BillingEventTrialWillEnd    BillingEventType = "subscription.trial_will_end"
)

// BillingEvent is an externally delivered, uniquely identified fact from the
// payment gateway. It is never generated internally and is consumed at most
// once via the processed-events ledger.
type BillingEvent struct {
	EventId    string
	EventType  BillingEventType
	OccurredAt time.Time
	// OrderRef identifies the subscription at the gateway
	// (matched against gateway_subscription_ref).
	OrderRef string
	// PlanId is set on activation events that rebind the subscription
	// to a new catalog plan.
	PlanId string
	// PeriodEnd, when set, is the gateway's view of the new period boundary.
	PeriodEnd *time.Time
	// AutoConvert reports that a payment method is attached at the gateway.
	AutoConvert bool
	Payload     map[string]interface{}
}

// ApplyOutcome classifies the result of feeding one billing event through the
// lifecycle. Everything except OutcomeApplied is a recognized no-op.
type ApplyOutcome string

const (
	OutcomeApplied          ApplyOutcome = "applied"
	OutcomeAlreadyProcessed ApplyOutcome = "already_processed"
	OutcomeStale            ApplyOutcome = "stale"
	OutcomeIgnored          ApplyOutcome = "ignored"
)

// ProcessedBillingEvent is one row of the idempotency ledger.
type ProcessedBillingEvent struct {
	EventId        string
	SubscriptionId uuid.UUID
	EventType      BillingEventType
	OccurredAt     time.Time
	ProcessedAt    time.Time
}
