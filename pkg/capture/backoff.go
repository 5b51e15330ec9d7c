package capture

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// ReconnectBackoff throttles repeated attempts to reopen a capture handle
// that failed transiently, replacing the teacher's hand-rolled token
// bucket (pkg/capture's old RateLimiter) with golang.org/x/time/rate.
type ReconnectBackoff struct {
	limiter *rate.Limiter
}

// NewReconnectBackoff allows at most one reconnect attempt per interval,
// with a single burst allowed immediately.
func NewReconnectBackoff(interval time.Duration) *ReconnectBackoff {
	return &ReconnectBackoff{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next reconnect attempt is permitted or ctx is
// cancelled.
func (b *ReconnectBackoff) Wait(ctx context.Context) error {
	return b.limiter.Wait(ctx)
}
