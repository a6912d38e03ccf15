package notify

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff computes retry delays of the form
// base * factor^retryCount, jittered, capped at MaxDelay.
type ExponentialBackoff struct {
	BaseDelay time.Duration
	Factor    float64
	MaxDelay  time.Duration

	// Jitter returns a multiplier applied before capping. Defaults to a
	// uniform draw from [0.85, 1.15] so synchronized failures fan out
	// instead of retrying in lockstep.
	Jitter func() float64
}

func DefaultBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay: time.Second,
		Factor:    2,
		MaxDelay:  time.Hour,
	}
}

func (b *ExponentialBackoff) Delay(retryCount int) time.Duration {
	jitter := b.Jitter
	if jitter == nil {
		jitter = defaultJitter
	}
	raw := float64(b.BaseDelay) * math.Pow(b.Factor, float64(retryCount)) * jitter()
	if raw > float64(b.MaxDelay) {
		return b.MaxDelay
	}
	return time.Duration(raw)
}

func defaultJitter() float64 {
	return 0.85 + rand.Float64()*0.3
}
