// FILE: internal/entity/conversion_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversionEventType string

const (
	ConversionPromptShown       ConversionEventType = "prompt_shown"
	ConversionPromptClicked     ConversionEventType = "prompt_clicked"
	ConversionTrialStarted      ConversionEventType = "trial_started"
	ConversionUpgradeCompleted  ConversionEventType = "upgrade_completed"
	ConversionCheckoutStarted   ConversionEventType = "checkout_started"
	ConversionCheckoutAbandoned ConversionEventType = "checkout_abandoned"
)

// ConversionEvent is an append-only analytics record. Rows are written once
// and never updated.
type ConversionEvent struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	EventType  ConversionEventType
	PromptId   string
	VariantKey string
	SourcePlan string
	TargetPlan string
	OccurredAt time.Time
}
