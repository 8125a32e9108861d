// Package profiling times the asset worker's compile and dispatch steps and
// hooks pprof into the CLI.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

// Stat aggregates every span recorded under one name.
type Stat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean is the average span duration.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler aggregates span durations by name. A disabled profiler records nothing.
type Profiler struct {
	mu      sync.Mutex
	enabled bool
	started time.Time
	stats   map[string]*Stat
}

type span struct {
	name     string
	start    time.Time
	profiler *Profiler
}

func (s *span) Stop() {
	s.profiler.record(s.name, time.Since(s.start))
}

type noopStopper struct{}

func (noopStopper) Stop() {}

var defaultProfiler = &Profiler{}

// Enable turns on the global profiler.
func Enable() {
	defaultProfiler.Enable()
}

// Start begins a span on the global profiler, typically used as
// defer profiling.Start("name").Stop().
func Start(name string) Stopper {
	return defaultProfiler.Start(name)
}

// Summarize writes the global profiler's table to w.
func Summarize(w io.Writer) {
	defaultProfiler.Summarize(w)
}

// Enable starts recording. Enabling twice keeps the existing stats.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	p.enabled = true
	p.started = time.Now()
	p.stats = make(map[string]*Stat)
}

func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	enabled := p.enabled
	p.mu.Unlock()
	if !enabled {
		return noopStopper{}
	}
	return &span{name: name, start: time.Now(), profiler: p}
}

func (p *Profiler) record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.stats[name]
	if !ok {
		st = &Stat{Name: name}
		p.stats[name] = st
	}
	st.Count++
	st.Total += d
	st.Max = max(st.Max, d)
}

// Stats returns a copy of the aggregated spans, slowest total first.
func (p *Profiler) Stats() []Stat {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Stat, 0, len(p.stats))
	for _, st := range p.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Summarize writes one line per span name.
func (p *Profiler) Summarize(w io.Writer) {
	p.mu.Lock()
	enabled, started := p.enabled, p.started
	p.mu.Unlock()
	if !enabled {
		return
	}

	fmt.Fprintf(w, "\n--- Timing Profile (%v) ---\n", time.Since(started).Round(time.Millisecond))
	for _, st := range p.Stats() {
		fmt.Fprintf(w, "- %-24s %5d  total %-10v mean %-10v max %v\n", st.Name, st.Count,
			st.Total.Round(100*time.Microsecond), st.Mean().Round(100*time.Microsecond), st.Max.Round(100*time.Microsecond))
	}
	fmt.Fprintln(w, "--------------------")
}
