// FILE: internal/model/processed_event_model.go
// GORM model for the billing-event idempotency ledger. Append-only; rows are
// garbage-collected after the retention window, which must be longer than the
// gateway's maximum retry window.
package model

import (
	"time"

	"github.com/google/uuid"

	"gorm.io/datatypes"
)

type ProcessedBillingEvent struct {
	EventId        string            `gorm:"type:varchar(255);primaryKey"`
	SubscriptionId uuid.UUID         `gorm:"type:uuid;not null;index"`
	EventType      string            `gorm:"type:varchar(100);not null"`
	OccurredAt     time.Time         `gorm:"not null"`
	Payload        datatypes.JSONMap `gorm:"type:jsonb"`
	ProcessedAt    time.Time         `gorm:"not null;index;autoCreateTime"`
}

func (ProcessedBillingEvent) TableName() string {
	return "processed_billing_events"
}
