package mapper

import (
	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/model"
)

type ConversionMapper struct{}

func NewConversionMapper() *ConversionMapper {
	return &ConversionMapper{}
}

func (m *ConversionMapper) ToEntity(c *model.ConversionEvent) *entity.ConversionEvent {
	if c == nil {
		return nil
	}
	return &entity.ConversionEvent{
		Id:         c.Id,
		UserId:     c.UserId,
		EventType:  entity.ConversionEventType(c.EventType),
		PromptId:   c.PromptId,
		VariantKey: c.VariantKey,
		SourcePlan: c.SourcePlan,
		TargetPlan: c.TargetPlan,
		OccurredAt: c.OccurredAt,
	}
}

func (m *ConversionMapper) ToModel(c *entity.ConversionEvent) *model.ConversionEvent {
	if c == nil {
		return nil
	}
	return &model.ConversionEvent{
		Id:         c.Id,
		UserId:     c.UserId,
		EventType:  string(c.EventType),
		PromptId:   c.PromptId,
		VariantKey: c.VariantKey,
		SourcePlan: c.SourcePlan,
		TargetPlan: c.TargetPlan,
		OccurredAt: c.OccurredAt,
	}
}
