package hotload

import "context"

// Gate hands the asset worker exclusive mutation windows over consumer-visible
// state. The worker offers a window with Publish; the consumer admits at most
// one window per Admit and stays blocked until the mutation is complete.
type Gate struct {
	admit   chan struct{}
	release chan struct{}
}

// NewGate creates a gate with no pending window.
func NewGate() *Gate {
	return &Gate{
		admit:   make(chan struct{}),
		release: make(chan struct{}),
	}
}

// Publish blocks until the consumer admits the window, runs apply, then
// releases the consumer. It returns ctx.Err() without running apply when ctx
// ends first.
func (g *Gate) Publish(ctx context.Context, apply func()) error {
	select {
	case g.admit <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { g.release <- struct{}{} }()
	apply()
	return nil
}

// Admit runs one pending window to completion and reports whether there was
// one. It never waits for the worker to offer a window.
func (g *Gate) Admit() bool {
	select {
	case <-g.admit:
		<-g.release
		return true
	default:
		return false
	}
}
