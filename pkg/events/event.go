package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
)

// Event is the envelope every pipeline event arrives in. Payload stays raw
// until a handler claims the event and knows its shape.
type Event struct {
	Type          string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID uuid.UUID       `json:"correlationId"`
	Payload       json.RawMessage `json:"payload"`
}

// ErrMalformedPayload marks an event whose payload cannot be decoded or is
// missing fields the handler cannot work without. The consumer drops these
// instead of retrying; a malformed event will not improve with age.
var ErrMalformedPayload = errors.New("malformed event payload")

// Handler consumes one event family. Returning nil for an unrecognized
// sub-type is deliberate: a new event version should not wedge the queue.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// NotificationSender decouples handlers from the notification pipeline.
type NotificationSender interface {
	Send(ctx context.Context, intent notify.Intent) error
}
