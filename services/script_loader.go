package services

import (
	"context"
	"sync"
)

// loadAttempt is one in-flight EnsureLoaded call; done closes once err is set.
type loadAttempt struct {
	done chan struct{}
	err  error
}

// LoadOnceGateway wraps a CheckoutGateway so EnsureLoaded behaves like a page
// script tag: an already-completed load is skipped, a load in flight is joined
// instead of duplicated, and only a failure allows another attempt.
type LoadOnceGateway struct {
	inner CheckoutGateway

	mu      sync.Mutex
	loaded  bool
	pending *loadAttempt
}

func NewLoadOnceGateway(inner CheckoutGateway) *LoadOnceGateway {
	return &LoadOnceGateway{inner: inner}
}

func (g *LoadOnceGateway) EnsureLoaded(ctx context.Context) error {
	g.mu.Lock()
	if g.loaded {
		g.mu.Unlock()
		return nil
	}
	if g.pending != nil {
		// A load is in flight; wait for its outcome rather than starting another.
		attempt := g.pending
		g.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	attempt := &loadAttempt{done: make(chan struct{})}
	g.pending = attempt
	g.mu.Unlock()

	err := g.inner.EnsureLoaded(ctx)

	g.mu.Lock()
	g.loaded = err == nil
	g.pending = nil
	g.mu.Unlock()

	attempt.err = err
	close(attempt.done)
	return err
}

func (g *LoadOnceGateway) NewWidget(opts WidgetOptions) (CheckoutWidget, error) {
	return g.inner.NewWidget(opts)
}
