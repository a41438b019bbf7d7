package worker

import (
	"context"
	"time"
)

// rateLimiter spaces job processing so at most max jobs run per window.
type rateLimiter struct {
	ch <-chan time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	if max <= 0 || window <= 0 {
		return nil
	}
	interval := window / time.Duration(max)
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	ch := make(chan time.Time, 1)
	ch <- time.Now()

	go func() {
		for t := range ticker.C {
			select {
			case ch <- t:
			default:
			}
		}
	}()

	return &rateLimiter{ch: ch}
}

func (r *rateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.ch:
		return nil
	}
}
