// Package ratelimit paces batch rendering so downstream consumers of the
// output stream are not flooded.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or a negative limit for unpaced rendering. A positive limit
// allows one render immediately, then paces the rest.
func New(rendersPerSecond float64) *Limiter {
	if rendersPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rendersPerSecond), 1),
	}
}

// Wait blocks until the next render is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Limit returns the configured renders per second, 0 meaning unpaced.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}

	return float64(limit)
}
