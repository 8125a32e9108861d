package watcher

import "time"

type debounceEntry struct {
	timer *time.Timer
	event ChangeEvent
	gen   uint64
}

// debouncer holds one trailing-edge timer per path. It is only used from the
// watcher loop goroutine; timers report back through fire.
type debouncer struct {
	duration time.Duration
	entries  map[string]*debounceEntry
	gen      uint64
}

func newDebouncer(duration time.Duration) *debouncer {
	return &debouncer{
		duration: duration,
		entries:  make(map[string]*debounceEntry),
	}
}

// schedule (re)arms the timer for path. A pending Added stays Added so a file
// created and then written is reported once.
func (d *debouncer) schedule(path string, event ChangeEvent, fire func(path string, gen uint64)) {
	d.gen++
	gen := d.gen

	entry, ok := d.entries[path]
	if ok {
		entry.timer.Stop()
		if entry.event.Action == Added {
			event.Action = Added
		}
	} else {
		entry = &debounceEntry{}
		d.entries[path] = entry
	}
	entry.event = event
	entry.gen = gen
	entry.timer = time.AfterFunc(d.duration, func() { fire(path, gen) })
}

// pop returns the event for path if gen is still the latest schedule.
func (d *debouncer) pop(path string, gen uint64) (ChangeEvent, bool) {
	entry, ok := d.entries[path]
	if !ok || entry.gen != gen {
		return ChangeEvent{}, false
	}
	delete(d.entries, path)
	return entry.event, true
}

// cancel drops the pending event for path.
func (d *debouncer) cancel(path string) (ChangeEvent, bool) {
	entry, ok := d.entries[path]
	if !ok {
		return ChangeEvent{}, false
	}
	entry.timer.Stop()
	delete(d.entries, path)
	return entry.event, true
}

func (d *debouncer) stop() {
	for _, entry := range d.entries {
		entry.timer.Stop()
	}
	d.entries = make(map[string]*debounceEntry)
}
