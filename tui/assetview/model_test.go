package assetview

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/hotload"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/grovetools/hotload/tui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	flags    []hotload.ChangeFlags
	snap     hotload.Snapshot
	requests []bool
}

func (f *fakeSource) RequestLoad(path string, keep bool) { f.requests = append(f.requests, keep) }
func (f *fakeSource) State() hotload.State               { return hotload.Watching }
func (f *fakeSource) Snapshot() hotload.Snapshot         { return f.snap }

func (f *fakeSource) Poll() hotload.ChangeFlags {
	if len(f.flags) == 0 {
		return hotload.FlagNone
	}
	flags := f.flags[0]
	f.flags = f.flags[1:]
	return flags
}

func testSnapshot() hotload.Snapshot {
	wall := &texture.Texture{Name: "wall", Width: 8, Height: 8}
	dict := texture.NewDictionary("textures")
	dict.Insert(wall)
	dict.Insert(&texture.Texture{Name: "spare", Width: 8, Height: 8})
	rust := texture.NewPlaceholder("rust")

	return hotload.Snapshot{
		Drawable: &drawable.Drawable{
			Name: "car",
			Materials: []*drawable.Material{
				{Name: "body", Vars: []*drawable.TextureVar{{Name: "baseColor", Texture: wall}}},
				{Name: "decal", Vars: []*drawable.TextureVar{{Name: "baseColor", Texture: rust}}},
			},
		},
		Dictionaries: []hotload.TxdView{
			{Path: "/level.pack/car.idr/textures.itd", Name: "textures", Embedded: true, Dict: dict},
			{Path: "/level.pack/broken.itd", Name: "broken"},
		},
		Orphans: []string{"rust"},
	}
}

func TestRenderSnapshot(t *testing.T) {
	out := renderSnapshot(testSnapshot(), theme.NewThemeWithName("terminal"))

	assert.Contains(t, out, "body")
	assert.Contains(t, out, "wall")
	assert.Contains(t, out, "rust (missing)")
	assert.Contains(t, out, "embedded")
	assert.Contains(t, out, "degraded")
	assert.Contains(t, out, "2, 1 used")
	assert.Contains(t, out, "MISSING")
}

func TestRenderEmptySnapshot(t *testing.T) {
	th := theme.NewThemeWithName("terminal")
	assert.Contains(t, renderSnapshot(hotload.Snapshot{}, th), "No drawable loaded")
	assert.Contains(t, renderSnapshot(hotload.Snapshot{IsLoading: true}, th), "Waiting")
}

func TestFramePollsOnce(t *testing.T) {
	src := &fakeSource{
		flags: []hotload.ChangeFlags{hotload.DrawableCompiled | hotload.TxdModified, hotload.TxdModified},
		snap:  testSnapshot(),
	}
	var m tea.Model = New(src, "/level.pack/car.idr")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := m.Update(frameMsg(time.Now()))
	require.NotNil(t, cmd)
	view := m.(Model)
	assert.Equal(t, 1, view.changes)
	assert.Equal(t, hotload.DrawableCompiled|hotload.TxdModified, view.lastFlags)
	assert.Len(t, src.flags, 1, "one window per frame")
	assert.Contains(t, view.View(), "car")
}

func TestReloadKeys(t *testing.T) {
	src := &fakeSource{}
	var m tea.Model = New(src, "/level.pack/car.idr")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("R")})
	assert.Equal(t, []bool{true, false}, src.requests)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
