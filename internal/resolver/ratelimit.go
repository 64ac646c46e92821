package resolver

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/time/rate"
)

// RateLimited caps the query rate of the wrapped resolver.
type RateLimited struct {
	limiter *rate.Limiter
	next    Resolver
}

// NewRateLimited allows perSecond queries per second with a burst of one.
func NewRateLimited(perSecond float64, next Resolver) *RateLimited {
	return &RateLimited{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		next:    next,
	}
}

func (r *RateLimited) Resolve(ctx context.Context, name string) ([]net.IP, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("error waiting for ratelimit: %w", err)
	}
	return r.next.Resolve(ctx, name)
}
