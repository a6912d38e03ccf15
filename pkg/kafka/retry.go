package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// DelayHeader carries the backoff delay in milliseconds on retry messages.
// The retry worker holds a message until its delay has elapsed, standing in
// for a broker-side delayed-redelivery primitive.
const DelayHeader = "x-delay-ms"

// DelayedProducer publishes to a fixed retry topic with a per-message delay
// header.
type DelayedProducer struct {
	producer *Producer
	topic    string
}

func NewDelayedProducer(p *Producer, topic string) *DelayedProducer {
	return &DelayedProducer{producer: p, topic: topic}
}

func (d *DelayedProducer) PublishDelayed(ctx context.Context, key, value []byte, delay time.Duration) error {
	return d.producer.Publish(ctx, d.topic, key, value, kafka.Header{
		Key:   DelayHeader,
		Value: []byte(strconv.FormatInt(delay.Milliseconds(), 10)),
	})
}

// MessageDelay extracts the delay header from a retry message. Messages
// without the header are redelivered immediately.
func MessageDelay(m *kafka.Message) time.Duration {
	for _, h := range m.Headers {
		if h.Key == DelayHeader {
			if ms, err := strconv.ParseInt(string(h.Value), 10, 64); err == nil {
				return time.Duration(ms) * time.Millisecond
			}
		}
	}
	return 0
}
