package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

const (
	errNoEligibleChannels = "No eligible channels found"
	errMaxRetriesReached  = "Max retry attempts reached"

	defaultSendTimeout = 30 * time.Second
)

// NotificationStore is the slice of the notification repository the
// dispatcher needs.
type NotificationStore interface {
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

// AttemptStore records one row per channel send.
type AttemptStore interface {
	Create(ctx context.Context, attempt *models.DeliveryAttempt) error
}

// Dispatcher fans a notification out to its eligible channels, records an
// attempt per channel, and settles the terminal or retry state. One
// successful channel is enough to mark the notification DELIVERED.
type Dispatcher struct {
	registry    *channels.Registry
	store       NotificationStore
	attempts    AttemptStore
	retries     *Scheduler
	sendTimeout time.Duration
	log         *zap.Logger
}

func NewDispatcher(registry *channels.Registry, store NotificationStore, attempts AttemptStore, retries *Scheduler, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		store:       store,
		attempts:    attempts,
		retries:     retries,
		sendTimeout: defaultSendTimeout,
		log:         log,
	}
}

type channelOutcome struct {
	channel string
	outcome channels.DeliveryOutcome
	latency time.Duration
}

// Dispatch runs one delivery cycle for a stored notification. It is called
// both for fresh notifications and for redispatches pulled off the retry
// queue; the retry count on the record distinguishes the two.
func (d *Dispatcher) Dispatch(ctx context.Context, n *models.Notification) error {
	start := time.Now()
	defer func() {
		metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}()

	eligible := d.registry.Eligible(n)
	if len(eligible) == 0 {
		d.log.Warn("no eligible channels",
			zap.String("notification_id", n.ID.String()),
			zap.String("type", n.Type),
			zap.Strings("channels", n.Channels),
		)
		return d.settle(ctx, n, models.StatusFailed, errNoEligibleChannels)
	}

	outcomes := make([]channelOutcome, len(eligible))
	var wg sync.WaitGroup
	for i, ch := range eligible {
		wg.Add(1)
		go func(i int, ch channels.Channel) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, ch, n)
		}(i, ch)
	}
	wg.Wait()

	attemptNumber := n.RetryCount + 1
	delivered := false
	for _, o := range outcomes {
		status := models.StatusDelivered
		errorDetails := ""
		if o.outcome.Success {
			delivered = true
		} else {
			status = models.StatusFailed
			if o.outcome.Err != nil {
				errorDetails = o.outcome.Err.Error()
			}
		}
		metrics.NotificationsAttemptedTotal.WithLabelValues(o.channel, status).Inc()
		metrics.NotificationSendDuration.WithLabelValues(o.channel).Observe(o.latency.Seconds())

		attempt := &models.DeliveryAttempt{
			NotificationID: n.ID,
			AttemptNumber:  attemptNumber,
			Channel:        o.channel,
			Status:         status,
			ErrorDetails:   errorDetails,
			LatencyMs:      o.latency.Milliseconds(),
		}
		if err := d.attempts.Create(ctx, attempt); err != nil {
			d.log.Error("record delivery attempt",
				zap.String("notification_id", n.ID.String()),
				zap.String("channel", o.channel),
				zap.Error(err),
			)
		}
	}

	if delivered {
		return d.settle(ctx, n, models.StatusDelivered, "")
	}

	if d.retries != nil && d.retries.ShouldRetry(n) {
		n.RetryCount++
		now := time.Now()
		n.LastRetryAt = &now
		n.Status = models.StatusPending
		if err := d.store.Update(ctx, n.ID, map[string]interface{}{
			"status":        models.StatusPending,
			"retry_count":   n.RetryCount,
			"last_retry_at": now,
		}); err != nil {
			return fmt.Errorf("update notification %s: %w", n.ID, err)
		}
		d.retries.ScheduleRetry(ctx, n)
		metrics.NotificationsDispatchedTotal.WithLabelValues(models.StatusPending).Inc()
		return nil
	}

	return d.settle(ctx, n, models.StatusFailed, errMaxRetriesReached)
}

func (d *Dispatcher) settle(ctx context.Context, n *models.Notification, status, errorDetails string) error {
	n.Status = status
	n.ErrorDetails = errorDetails
	if err := d.store.Update(ctx, n.ID, map[string]interface{}{
		"status":        status,
		"error_details": errorDetails,
	}); err != nil {
		return fmt.Errorf("update notification %s: %w", n.ID, err)
	}
	metrics.NotificationsDispatchedTotal.WithLabelValues(status).Inc()
	d.log.Info("notification settled",
		zap.String("notification_id", n.ID.String()),
		zap.String("status", status),
		zap.String("correlation_id", n.CorrelationID.String()),
	)
	return nil
}

// send wraps a channel send with a timeout and panic isolation. A channel
// that hangs or panics yields a failed outcome for that channel only.
func (d *Dispatcher) send(ctx context.Context, ch channels.Channel, n *models.Notification) channelOutcome {
	start := time.Now()
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	done := make(chan channels.DeliveryOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("channel send panicked",
					zap.String("channel", ch.Name()),
					zap.String("notification_id", n.ID.String()),
					zap.Any("panic", r),
				)
				done <- channels.Failed(fmt.Errorf("channel %s panicked: %v", ch.Name(), r), nil)
			}
		}()
		done <- ch.Send(sendCtx, n)
	}()

	select {
	case outcome := <-done:
		return channelOutcome{channel: ch.Name(), outcome: outcome, latency: time.Since(start)}
	case <-sendCtx.Done():
		return channelOutcome{
			channel: ch.Name(),
			outcome: channels.Failed(fmt.Errorf("channel %s: %w", ch.Name(), sendCtx.Err()), nil),
			latency: time.Since(start),
		}
	}
}
