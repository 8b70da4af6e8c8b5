package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type countingGateway struct {
	loads   atomic.Int32
	loadErr error
	block   chan struct{} // when set, EnsureLoaded waits on it
}

func (g *countingGateway) EnsureLoaded(ctx context.Context) error {
	g.loads.Add(1)
	if g.block != nil {
		<-g.block
	}
	return g.loadErr
}

func (g *countingGateway) NewWidget(opts WidgetOptions) (CheckoutWidget, error) {
	return &fakeWidget{opts: opts}, nil
}

func TestLoadOnceGatewaySkipsAfterSuccess(t *testing.T) {
	inner := &countingGateway{}
	gw := NewLoadOnceGateway(inner)

	for i := 0; i < 3; i++ {
		if err := gw.EnsureLoaded(context.Background()); err != nil {
			t.Fatalf("EnsureLoaded: %v", err)
		}
	}
	if got := inner.loads.Load(); got != 1 {
		t.Errorf("inner loads = %d, want 1", got)
	}
}

func TestLoadOnceGatewayJoinsInFlightLoad(t *testing.T) {
	inner := &countingGateway{block: make(chan struct{})}
	gw := NewLoadOnceGateway(inner)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = gw.EnsureLoaded(context.Background())
		}(i)
	}

	// Release the single underlying load; every waiter joins it.
	close(inner.block)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if got := inner.loads.Load(); got != 1 {
		t.Errorf("inner loads = %d, want 1", got)
	}
}

func TestLoadOnceGatewayRetriesAfterFailure(t *testing.T) {
	inner := &countingGateway{loadErr: errors.New("script failed to load")}
	gw := NewLoadOnceGateway(inner)

	if err := gw.EnsureLoaded(context.Background()); err == nil {
		t.Fatal("expected load failure")
	}

	// Failures are not memoized; the next attempt loads again.
	inner.loadErr = nil
	if err := gw.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := inner.loads.Load(); got != 2 {
		t.Errorf("inner loads = %d, want 2", got)
	}
}
