package memory

import (
	"context"
	"time"
)

// Simulated round trips of the demonstration backends.
const (
	DefaultOrdersLatency   = 800 * time.Millisecond
	DefaultProductsLatency = 600 * time.Millisecond
	DefaultWeatherLatency  = 500 * time.Millisecond
)

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
