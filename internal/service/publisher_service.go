// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"

	"resume-analyzer-be/internal/entity"
	"resume-analyzer-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const ConversionTopicName = "conversion_events"

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	// Record implements prompt.Recorder: fire-and-forget, the request path
	// never blocks or fails on analytics.
	Record(ctx context.Context, event *entity.ConversionEvent)
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, logger logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    logger,
	}
}

func (s *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, msg)
}

func (s *publisherService) Record(ctx context.Context, event *entity.ConversionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("CONVERSION", "Failed to marshal conversion event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := s.Publish(ctx, payload); err != nil {
		s.logger.Warn("CONVERSION", "Failed to publish conversion event", map[string]interface{}{
			"event_type": event.EventType,
			"error":      err.Error(),
		})
	}
}
