package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerKeepsLatestSchedule(t *testing.T) {
	d := newDebouncer(time.Hour)
	defer d.stop()

	var fired []uint64
	fire := func(_ string, gen uint64) { fired = append(fired, gen) }

	d.schedule("/a.png", ChangeEvent{Path: "/a.png", Action: Modified}, fire)
	d.schedule("/a.png", ChangeEvent{Path: "/a.png", Action: Modified}, fire)

	_, ok := d.pop("/a.png", 1)
	assert.False(t, ok, "stale generation is ignored")

	ev, ok := d.pop("/a.png", 2)
	require.True(t, ok)
	assert.Equal(t, Modified, ev.Action)
	assert.Empty(t, fired)
}

func TestDebouncerAddedSurvivesWrites(t *testing.T) {
	d := newDebouncer(time.Hour)
	defer d.stop()
	fire := func(string, uint64) {}

	d.schedule("/a.png", ChangeEvent{Path: "/a.png", Action: Added}, fire)
	d.schedule("/a.png", ChangeEvent{Path: "/a.png", Action: Modified}, fire)

	ev, ok := d.cancel("/a.png")
	require.True(t, ok)
	assert.Equal(t, Added, ev.Action)

	_, ok = d.cancel("/a.png")
	assert.False(t, ok)
}

func TestDebouncerFires(t *testing.T) {
	d := newDebouncer(5 * time.Millisecond)
	defer d.stop()

	fired := make(chan uint64, 1)
	d.schedule("/a.png", ChangeEvent{Path: "/a.png"}, func(_ string, gen uint64) { fired <- gen })

	select {
	case gen := <-fired:
		_, ok := d.pop("/a.png", gen)
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounce")
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "renamed", Renamed.String())
	assert.Equal(t, "unknown", Action(42).String())
}
