package channels

import (
	"context"
	"time"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

// DeliveryOutcome is the result of a single channel send. Send never
// propagates errors; every failure mode is captured here so one channel
// cannot abort the evaluation of its siblings.
type DeliveryOutcome struct {
	Success   bool
	MessageID string
	Err       error
	Timestamp time.Time
	Details   map[string]interface{}
}

func Delivered(messageID string, details map[string]interface{}) DeliveryOutcome {
	return DeliveryOutcome{
		Success:   true,
		MessageID: messageID,
		Timestamp: time.Now(),
		Details:   details,
	}
}

func Failed(err error, details map[string]interface{}) DeliveryOutcome {
	return DeliveryOutcome{
		Success:   false,
		Err:       err,
		Timestamp: time.Now(),
		Details:   details,
	}
}

// Channel is a delivery surface. CanHandle is a pure predicate over the
// notification's channel set; Send is the only operation allowed to do I/O.
type Channel interface {
	Name() string
	CanHandle(n *models.Notification) bool
	Send(ctx context.Context, n *models.Notification) DeliveryOutcome
}

// Directory resolves a recipient's contact surface. A missing address is a
// failed outcome at the channel, not an error past it.
type Directory interface {
	FindByID(ctx context.Context, recipientID string) (*models.Recipient, error)
}

// Registry holds the configured channels in registration order.
type Registry struct {
	channels []Channel
	names    map[string]struct{}
}

func NewRegistry(chs ...Channel) *Registry {
	names := make(map[string]struct{}, len(chs))
	for _, ch := range chs {
		names[ch.Name()] = struct{}{}
	}
	return &Registry{channels: chs, names: names}
}

func (r *Registry) Channels() []Channel {
	return r.channels
}

// Eligible returns the channels that can handle the notification, in
// registration order.
func (r *Registry) Eligible(n *models.Notification) []Channel {
	var eligible []Channel
	for _, ch := range r.channels {
		if ch.CanHandle(n) {
			eligible = append(eligible, ch)
		}
	}
	return eligible
}

// Known reports whether a channel name is registered. The builder drops
// unknown names silently at build time.
func (r *Registry) Known(name string) bool {
	_, ok := r.names[name]
	return ok
}
