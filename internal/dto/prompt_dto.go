// FILE: internal/dto/prompt_dto.go
package dto

type PromptResponse struct {
	PromptId   string `json:"prompt_id"`
	Trigger    string `json:"trigger"`
	TargetPlan string `json:"target_plan,omitempty"`
	VariantKey string `json:"variant_key"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	CTALabel   string `json:"cta_label"`
}

type PromptClickRequest struct {
	PromptId   string `json:"prompt_id" validate:"required"`
	VariantKey string `json:"variant_key" validate:"required"`
	TargetPlan string `json:"target_plan"`
}
