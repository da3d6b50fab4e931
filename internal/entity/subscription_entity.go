// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingCycle string

const (
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
	SubscriptionStatusTrialing   SubscriptionStatus = "trialing"
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled  SubscriptionStatus = "cancelled"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// TrialPeriod is present only while a subscription has (or had) a trial window.
// A nil TrialPeriod means "never trialed on this subscription row".
type TrialPeriod struct {
	Start time.Time
	End   time.Time
}

type Subscription struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	PlanId             string
	Status             SubscriptionStatus
	BillingCycle       BillingCycle
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	Trial              *TrialPeriod
	UsageThisPeriod    int
	CancelAtPeriodEnd  bool
	CancelledAt        *time.Time
	// AutoConvert is carried from the billing event stream: the gateway has a
	// payment method on file, so an expiring trial converts instead of lapsing.
	AutoConvert            bool
	GatewayCustomerRef     *string
	GatewaySubscriptionRef *string
	// CheckoutStartedAt / CheckoutTargetPlan track an in-flight paid checkout
	// until the gateway's activation event lands (abandoned-cart detection).
	CheckoutStartedAt  *time.Time
	CheckoutTargetPlan *string
	// LastEventAt is the occurred_at of the last applied billing event,
	// used for the stale-event monotonic check.
	LastEventAt *time.Time
	// Version backs the optimistic concurrency check on state transitions.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanMeter reports whether metered actions are permitted at all for the
// current status. The quota check itself lives in the usage meter.
func (s *Subscription) CanMeter() bool {
	return s.Status == SubscriptionStatusTrialing || s.Status == SubscriptionStatusActive
}

// InTrial reports whether the subscription is trialing and within its window.
func (s *Subscription) InTrial(now time.Time) bool {
	return s.Status == SubscriptionStatusTrialing && s.Trial != nil && now.Before(s.Trial.End)
}
