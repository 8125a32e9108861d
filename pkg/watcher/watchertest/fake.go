// Package watchertest provides an in-memory ChangeWatcher for tests.
package watchertest

import (
	"sync"

	"github.com/grovetools/hotload/pkg/watcher"
)

// Fake is a ChangeWatcher whose events are injected by the test.
type Fake struct {
	mu        sync.Mutex
	events    chan watcher.ChangeEvent
	root      string
	recursive bool
	started   bool
	stopped   bool
	starts    int
}

// New creates a fake with room for buffer pending events.
func New(buffer int) *Fake {
	return &Fake{events: make(chan watcher.ChangeEvent, buffer)}
}

// Factory returns a watcher.Factory that always hands out f.
func (f *Fake) Factory() watcher.Factory {
	return func() watcher.ChangeWatcher { return f }
}

func (f *Fake) Start(root string, recursive bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.root = root
	f.recursive = recursive
	f.started = true
	f.stopped = false
	f.starts++
	return nil
}

func (f *Fake) Events() <-chan watcher.ChangeEvent {
	return f.events
}

func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

// Send queues an event. It blocks when the buffer is full.
func (f *Fake) Send(ev watcher.ChangeEvent) {
	f.events <- ev
}

// Root returns the directory passed to the last Start.
func (f *Fake) Root() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root
}

// Running reports whether Start was called without a later Stop.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started && !f.stopped
}

// Starts counts calls to Start.
func (f *Fake) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}
