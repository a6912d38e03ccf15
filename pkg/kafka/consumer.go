package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MaxBytes: 10e6, // 10MB
		}),
	}
}

func (c *Consumer) Read(ctx context.Context) (*kafka.Message, error) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		metrics.KafkaSubscriberFailureTotal.WithLabelValues(c.reader.Config().Topic).Inc()
		return nil, err
	}
	return &m, nil
}

// ReportLag publishes the consumer group lag gauge until ctx is cancelled.
// Run it in its own goroutine.
func (c *Consumer) ReportLag(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if lag, err := c.reader.ReadLag(ctx); err == nil {
				metrics.KafkaConsumerLag.WithLabelValues(
					c.reader.Config().GroupID,
					c.reader.Config().Topic,
				).Set(float64(lag))
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
