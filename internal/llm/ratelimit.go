package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider with a token-bucket limiter so that
// concurrent batch runs stay under the API's rate limits. One limiter is
// shared across all calls to the wrapped provider.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider wraps a provider with the given request rate
func NewRateLimitedProvider(inner Provider, requestsPerSecond float64, burst int) *RateLimitedProvider {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider's name
func (p *RateLimitedProvider) Name() string {
	return p.inner.Name()
}

// Complete waits for rate limit clearance, then delegates
func (p *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return p.inner.Complete(ctx, req)
}

// IsAvailable delegates to the wrapped provider
func (p *RateLimitedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}
