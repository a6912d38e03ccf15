package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/events"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
)

// EventService accepts pipeline events over HTTP and hands them to the same
// topic the upstream services publish to. Useful for backfills and manual
// redrives.
type EventService struct {
	producer *kafka.Producer
	topic    string
}

func NewEventService(producer *kafka.Producer, topic string) *EventService {
	return &EventService{producer: producer, topic: topic}
}

func (s *EventService) PublishEvent(ctx context.Context, event *events.Event) error {
	if event.Type == "" {
		return errors.New("eventType is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("payload is required")
	}
	if event.CorrelationID == uuid.Nil {
		event.CorrelationID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.producer.Publish(ctx, s.topic, []byte(event.Type), value)
}
