package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedJitter(v float64) func() float64 {
	return func() float64 { return v }
}

func TestBackoffGrowsExponentially(t *testing.T) {
	b := DefaultBackoff()
	b.Jitter = fixedJitter(1.0)

	assert.Equal(t, time.Second, b.Delay(0))
	assert.Equal(t, 2*time.Second, b.Delay(1))
	assert.Equal(t, 32*time.Second, b.Delay(5))
}

func TestBackoffJitterBounds(t *testing.T) {
	b := DefaultBackoff()

	for i := 0; i < 100; i++ {
		d := b.Delay(0)
		assert.GreaterOrEqual(t, d, 849*time.Millisecond)
		assert.LessOrEqual(t, d, 1151*time.Millisecond)
	}

	for i := 0; i < 100; i++ {
		d := b.Delay(5)
		assert.GreaterOrEqual(t, d, 27199*time.Millisecond)
		assert.LessOrEqual(t, d, 36801*time.Millisecond)
	}
}

func TestBackoffCapsAtMaxDelay(t *testing.T) {
	b := DefaultBackoff()
	b.Jitter = fixedJitter(1.15)

	assert.Equal(t, time.Hour, b.Delay(20))
	assert.Equal(t, time.Hour, b.Delay(60))
}

func TestBackoffMonotonicWithoutJitter(t *testing.T) {
	b := DefaultBackoff()
	b.Jitter = fixedJitter(1.0)

	prev := time.Duration(0)
	for n := 0; n < 15; n++ {
		d := b.Delay(n)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}
