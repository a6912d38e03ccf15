package notify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

// DelayedPublisher delivers a payload after the given delay.
type DelayedPublisher interface {
	PublishDelayed(ctx context.Context, key, value []byte, delay time.Duration) error
}

// Scheduler decides whether a failed notification gets another attempt and
// enqueues the delayed redispatch when it does.
type Scheduler struct {
	maxRetries int
	backoff    *ExponentialBackoff
	publisher  DelayedPublisher
	log        *zap.Logger
}

const DefaultMaxRetries = 5

func NewScheduler(maxRetries int, backoff *ExponentialBackoff, publisher DelayedPublisher, log *zap.Logger) *Scheduler {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if backoff == nil {
		backoff = DefaultBackoff()
	}
	return &Scheduler{
		maxRetries: maxRetries,
		backoff:    backoff,
		publisher:  publisher,
		log:        log,
	}
}

func (s *Scheduler) ShouldRetry(n *models.Notification) bool {
	return n.RetryCount < s.maxRetries
}

// ScheduleRetry enqueues the notification id with a delay derived from the
// already-incremented retry count. Enqueue failures are logged and swallowed:
// the notification stays PENDING and an operator can redispatch it, which
// beats failing the dispatch cycle that called us.
func (s *Scheduler) ScheduleRetry(ctx context.Context, n *models.Notification) {
	delay := s.backoff.Delay(n.RetryCount)

	payload, err := json.Marshal(map[string]string{"notificationId": n.ID.String()})
	if err != nil {
		metrics.RetryScheduleFailuresTotal.Inc()
		s.log.Error("marshal retry payload",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishDelayed(ctx, []byte(n.ID.String()), payload, delay); err != nil {
		metrics.RetryScheduleFailuresTotal.Inc()
		s.log.Error("schedule retry",
			zap.String("notification_id", n.ID.String()),
			zap.Int("retry_count", n.RetryCount),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		return
	}

	metrics.NotificationRetriesTotal.Inc()
	s.log.Info("retry scheduled",
		zap.String("notification_id", n.ID.String()),
		zap.Int("retry_count", n.RetryCount),
		zap.Duration("delay", delay),
	)
}
