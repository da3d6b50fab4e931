// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"
	"resume-analyzer-be/internal/repository/unitofwork"
	"resume-analyzer-be/pkg/events"
	pktNats "resume-analyzer-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService drains the in-process conversion topic: each message is
// persisted to the conversion_events table and mirrored onto the NATS bus
// for downstream analytics.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event entity.ConversionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("CONVERSION", "Failed to unmarshal conversion event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if event.Id == uuid.Nil {
		event.Id = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversionRepository().Create(ctx, &event); err != nil {
		cs.logger.Error("CONVERSION", "Failed to persist conversion event", map[string]interface{}{
			"event_type": event.EventType,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewConversionEvent(busEventType(event.EventType), map[string]interface{}{
			"event_type":  event.EventType,
			"user_id":     event.UserId,
			"prompt_id":   event.PromptId,
			"variant_key": event.VariantKey,
			"source_plan": event.SourcePlan,
			"target_plan": event.TargetPlan,
			"occurred_at": event.OccurredAt,
		})
		// Analytics fan-out is auxiliary; a bus outage never nacks the row
		// we already persisted.
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("CONVERSION", "Failed to mirror event to NATS", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}

// busEventType picks the NATS subject-level type for a conversion event.
// Funnel milestones get their own type; everything else rides the generic
// analytics stream.
func busEventType(t entity.ConversionEventType) string {
	switch t {
	case entity.ConversionTrialStarted:
		return events.TypeTrialStarted
	case entity.ConversionUpgradeCompleted:
		return events.TypeUpgradeCompleted
	default:
		return events.TypeConversionRecorded
	}
}
