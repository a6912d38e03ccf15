package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

type capturePublisher struct {
	key   []byte
	value []byte
	delay time.Duration
	calls int
	err   error
}

func (p *capturePublisher) PublishDelayed(ctx context.Context, key, value []byte, delay time.Duration) error {
	p.calls++
	p.key = key
	p.value = value
	p.delay = delay
	return p.err
}

func TestShouldRetryBoundary(t *testing.T) {
	s := NewScheduler(5, nil, &capturePublisher{}, zap.NewNop())

	assert.True(t, s.ShouldRetry(&models.Notification{RetryCount: 0}))
	assert.True(t, s.ShouldRetry(&models.Notification{RetryCount: 4}))
	assert.False(t, s.ShouldRetry(&models.Notification{RetryCount: 5}))
}

func TestScheduleRetryPublishesNotificationID(t *testing.T) {
	pub := &capturePublisher{}
	backoff := DefaultBackoff()
	backoff.Jitter = fixedJitter(1.0)
	s := NewScheduler(5, backoff, pub, zap.NewNop())

	n := &models.Notification{ID: uuid.New(), RetryCount: 2}
	s.ScheduleRetry(context.Background(), n)

	require.Equal(t, 1, pub.calls)
	assert.Equal(t, 4*time.Second, pub.delay)

	var msg map[string]string
	require.NoError(t, json.Unmarshal(pub.value, &msg))
	assert.Equal(t, n.ID.String(), msg["notificationId"])
}

func TestScheduleRetrySwallowsPublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	s := NewScheduler(5, nil, pub, zap.NewNop())

	n := &models.Notification{ID: uuid.New(), RetryCount: 1}
	assert.NotPanics(t, func() {
		s.ScheduleRetry(context.Background(), n)
	})
	assert.Equal(t, 1, pub.calls)
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewScheduler(0, nil, &capturePublisher{}, zap.NewNop())

	assert.True(t, s.ShouldRetry(&models.Notification{RetryCount: DefaultMaxRetries - 1}))
	assert.False(t, s.ShouldRetry(&models.Notification{RetryCount: DefaultMaxRetries}))
}
