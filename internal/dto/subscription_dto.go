// FILE: internal/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatusResponse struct {
	SubscriptionId     uuid.UUID  `json:"subscription_id"`
	PlanId             string     `json:"plan_id"`
	PlanName           string     `json:"plan_name"`
	Status             string     `json:"status"`
	BillingCycle       string     `json:"billing_cycle"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
}

type CheckoutRequest struct {
	PlanId        string `json:"plan_id" validate:"required"`
	BillingCycle  string `json:"billing_cycle" validate:"required,oneof=monthly annual"`
	Seats         int    `json:"seats" validate:"omitempty,min=1,max=500"`
	Region        string `json:"region" validate:"omitempty,len=2"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerName  string `json:"customer_name" validate:"required"`
}

type CheckoutResponse struct {
	OrderRef    string  `json:"order_ref"`
	SnapToken   string  `json:"snap_token"`
	RedirectUrl string  `json:"redirect_url"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type CancelRequest struct {
	Immediate bool `json:"immediate"`
}

type StartTrialRequest struct {
	PlanId      string `json:"plan_id" validate:"required"`
	AutoConvert bool   `json:"auto_convert"`
}

type TrialStatusResponse struct {
	Active         bool            `json:"active"`
	PlanId         string          `json:"plan_id,omitempty"`
	DaysRemaining  int             `json:"days_remaining"`
	UsageThisTrial int             `json:"usage_this_trial"`
	AutoConvert    bool            `json:"auto_convert"`
	EndsAt         *time.Time      `json:"ends_at,omitempty"`
	Eligible       map[string]bool `json:"eligible,omitempty"`
}
