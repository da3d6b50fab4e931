// FILE: internal/dto/webhook_dto.go
package dto

import "time"

// BillingWebhookRequest is the signed gateway envelope. The HMAC covers the
// raw body, so this struct is only parsed after verification.
type BillingWebhookRequest struct {
	EventId     string                 `json:"event_id" validate:"required"`
	EventType   string                 `json:"event_type" validate:"required"`
	OccurredAt  time.Time              `json:"occurred_at" validate:"required"`
	OrderRef    string                 `json:"order_ref" validate:"required"`
	PlanId      string                 `json:"plan_id"`
	PeriodEnd   *time.Time             `json:"period_end"`
	AutoConvert bool                   `json:"auto_convert"`
	Payload     map[string]interface{} `json:"payload"`
}

type WebhookAckResponse struct {
	Outcome string `json:"outcome"`
}
