package mapper

import (
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BillingEventMapper struct{}

func NewBillingEventMapper() *BillingEventMapper {
	return &BillingEventMapper{}
}

func (m *BillingEventMapper) ToLedgerModel(e *entity.BillingEvent, subscriptionId uuid.UUID) *model.ProcessedBillingEvent {
	if e == nil {
		return nil
	}
	return &model.ProcessedBillingEvent{
		EventId:        e.EventId,
		SubscriptionId: subscriptionId,
		EventType:      string(e.EventType),
		OccurredAt:     e.OccurredAt,
		Payload:        datatypes.JSONMap(e.Payload),
	}
}

func (m *BillingEventMapper) LedgerToEntity(p *model.ProcessedBillingEvent) *entity.ProcessedBillingEvent {
	if p == nil {
		return nil
	}
	return &entity.ProcessedBillingEvent{
		EventId:        p.EventId,
		SubscriptionId: p.SubscriptionId,
		EventType:      entity.BillingEventType(p.EventType),
		OccurredAt:     p.OccurredAt,
		ProcessedAt:    p.ProcessedAt,
	}
}
