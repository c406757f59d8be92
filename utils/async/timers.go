package async

import (
	"context"
	"time"
)

// WithInterval calls callback every interval until ctx is done.
// The returned channel is closed when the loop exits.
func WithInterval(ctx context.Context, interval time.Duration, callback func()) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				callback()
			}
		}
	}()

	return done
}
