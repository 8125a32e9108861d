package profiling

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProfilerRecordsNothing(t *testing.T) {
	p := &Profiler{}
	p.Start("load").Stop()
	assert.Empty(t, p.Stats())

	var buf bytes.Buffer
	p.Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestProfilerAggregatesByName(t *testing.T) {
	p := &Profiler{}
	p.Enable()

	for i := 0; i < 3; i++ {
		s := p.Start("compile.texture")
		time.Sleep(time.Millisecond)
		s.Stop()
	}
	p.Start("load").Stop()

	stats := p.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "compile.texture", stats[0].Name)
	assert.Equal(t, 3, stats[0].Count)
	assert.GreaterOrEqual(t, stats[0].Total, 3*time.Millisecond)
	assert.GreaterOrEqual(t, stats[0].Max, stats[0].Mean())

	var buf bytes.Buffer
	p.Summarize(&buf)
	assert.Contains(t, buf.String(), "compile.texture")
	assert.Contains(t, buf.String(), "load")
}
