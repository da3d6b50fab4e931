package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversionEvent struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	EventType  string    `gorm:"type:varchar(50);not null;index"`
	PromptId   string    `gorm:"type:varchar(100)"`
	VariantKey string    `gorm:"type:varchar(50)"`
	SourcePlan string    `gorm:"type:varchar(50)"`
	TargetPlan string    `gorm:"type:varchar(50)"`
	OccurredAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ConversionEvent) TableName() string {
	return "conversion_events"
}
