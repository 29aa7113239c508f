package resilience

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Limiter spaces out outbound calls with a token bucket.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows rps calls per second with a burst of one. A non-positive
// rps disables limiting.
func NewLimiter(rps float64) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return eris.Wrap(l.limiter.Wait(ctx), "resilience: rate limit wait")
}
