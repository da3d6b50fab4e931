// FILE: internal/dto/entitlement_dto.go
package dto

type EntitlementResponse struct {
	PlanId          string          `json:"plan_id"`
	Status          string          `json:"status"`
	Features        map[string]bool `json:"features"`
	QuotaPerPeriod  int             `json:"quota_per_period"`
	UsageThisPeriod int             `json:"usage_this_period"`
	Remaining       int             `json:"remaining"`
	FileSizeLimitMB int             `json:"file_size_limit_mb"`
	IncludedSeats   int             `json:"included_seats"`
	BulkUploadLimit int             `json:"bulk_upload_limit"`
	APICallLimit    int             `json:"api_call_limit"`
}

type FeatureCheckRequest struct {
	Feature string `json:"feature" validate:"required"`
}

type FeatureCheckResponse struct {
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
}

type ResourceCheckRequest struct {
	Resource  string `json:"resource" validate:"required,oneof=file_size_mb seats bulk_upload"`
	Requested int    `json:"requested" validate:"required,min=1"`
}

type ResourceCheckResponse struct {
	Allowed       bool            `json:"allowed"`
	Reason        string          `json:"reason,omitempty"`
	Requested     int             `json:"requested,omitempty"`
	Limit         int             `json:"limit,omitempty"`
	SuggestedPlan string          `json:"suggested_plan,omitempty"`
	Prompt        *PromptResponse `json:"prompt,omitempty"`
}
