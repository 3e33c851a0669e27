package limiter

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter is a token bucket shared by all callers of one resource.
type Limiter struct {
	logger *zap.Logger
	l      *rate.Limiter
}

// New creates a limiter allowing limit events per second with the given burst.
// A non-positive limit disables limiting.
func New(logger *zap.Logger, limit float64, burst int) *Limiter {
	r := rate.Limit(limit)
	if limit <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{logger: logger, l: rate.NewLimiter(r, burst)}
}

// Limit reports whether the current event must be rejected.
func (l *Limiter) Limit() bool {
	allowed := l.l.Allow()
	if !allowed {
		l.logger.Debug("Rate limit exceeded",
			zap.Float64("limit", float64(l.l.Limit())),
			zap.Int("burst", l.l.Burst()),
		)
	}
	return !allowed
}

// Wait blocks until an event is permitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.l.Wait(ctx)
}
