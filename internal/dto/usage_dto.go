// FILE: internal/dto/usage_dto.go
package dto

import "time"

type ConsumeUsageRequest struct {
	Amount int `json:"amount" validate:"omitempty,min=1,max=100"`
}

// ConsumeUsageResponse may carry a soft usage warning prompt once the
// period counter crosses 80% of the quota.
type ConsumeUsageResponse struct {
	Consumed  bool            `json:"consumed"`
	NewUsage  int             `json:"new_usage"`
	Limit     int             `json:"limit"`
	Remaining int             `json:"remaining"`
	Prompt    *PromptResponse `json:"prompt,omitempty"`
}

// UsageDeniedResponse is the 429 body when quota is exhausted. It carries
// the upgrade prompt selected for this user.
type UsageDeniedResponse struct {
	Reason        string          `json:"reason"`
	Usage         int             `json:"usage"`
	Limit         int             `json:"limit"`
	SuggestedPlan string          `json:"suggested_plan,omitempty"`
	Prompt        *PromptResponse `json:"prompt,omitempty"`
}

type UsageSummaryResponse struct {
	PlanId          string    `json:"plan_id"`
	UsageThisPeriod int       `json:"usage_this_period"`
	Limit           int       `json:"limit"`
	Remaining       int       `json:"remaining"`
	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
}
