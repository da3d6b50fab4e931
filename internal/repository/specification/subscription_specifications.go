// FILE: internal/repository/specification/subscription_specifications.go
// Domain-specific query specifications for subscriptions and billing events.
package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserOwnedBy filters rows belonging to a user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// StatusIs filters subscriptions by lifecycle status.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// PeriodEndedBefore matches subscriptions whose billing period lapsed
// before the given instant. Used by the rollover sweep.
type PeriodEndedBefore struct {
	At time.Time
}

func (s PeriodEndedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("current_period_end < ?", s.At)
}

// TrialEndedBefore matches subscriptions whose trial window lapsed before
// the given instant. Used by the stale-trial sweep.
type TrialEndedBefore struct {
	At time.Time
}

func (s TrialEndedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("trial_end IS NOT NULL AND trial_end < ?", s.At)
}

// CheckoutStartedBefore matches subscriptions with an in-flight checkout
// older than the given instant. Used by abandoned-cart detection.
type CheckoutStartedBefore struct {
	At time.Time
}

func (s CheckoutStartedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("checkout_started_at IS NOT NULL AND checkout_started_at < ?", s.At)
}
