package texture

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingNameRoundTrip(t *testing.T) {
	testCases := []struct {
		display string
		name    string
		ok      bool
	}{
		{MissingName("Wall"), "Wall", true},
		{"Wall (Missing)##$MT_Wall", "Wall", true},
		{"Wall", "", false},
		{"Wall (Missing)##$MT_Floor", "", false},
		{" (Missing)##$MT_", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.display, func(t *testing.T) {
			name, ok := DecodeMissingName(tc.display)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.name, name)
		})
	}
}

func TestPlaceholder(t *testing.T) {
	p := NewPlaceholder("Wall")

	name, ok := p.Missing()
	require.True(t, ok)
	assert.Equal(t, "Wall", name)
	assert.Equal(t, "Wall", p.OriginalName())
	assert.Equal(t, "Wall (Missing)##$MT_Wall", p.Name)
	assert.Empty(t, p.Source)

	decoded, ok := DecodeMissingName(p.Name)
	require.True(t, ok)
	assert.Equal(t, "Wall", decoded)

	require.Len(t, p.Levels, 1)
	assert.NotEqual(t, p.Levels[0].RGBAAt(0, 0), p.Levels[0].RGBAAt(placeholderCell, 0))

	p.SetName("Brick")
	assert.Equal(t, "Brick", p.OriginalName())
	assert.Equal(t, MissingName("Brick"), p.Name)
}

func TestRealTextureIsNotMissing(t *testing.T) {
	tex := &Texture{Name: "Wall", Levels: []*image.RGBA{image.NewRGBA(image.Rect(0, 0, 1, 1))}}
	_, ok := tex.Missing()
	assert.False(t, ok)
	assert.False(t, tex.IsPlaceholder())

	tex.SetName("Brick")
	assert.Equal(t, "Brick", tex.Name)

	var nilTex *Texture
	assert.False(t, nilTex.IsPlaceholder())
}

func TestDictionary(t *testing.T) {
	d := NewDictionary("textures")
	wall := &Texture{Name: "Wall"}
	assert.Nil(t, d.Insert(wall))
	assert.Nil(t, d.Insert(wall), "re-inserting the same object replaces nothing")

	assert.Same(t, wall, d.Find("WALL"))

	placeholder := NewPlaceholder("wall")
	assert.Same(t, wall, d.Insert(placeholder), "placeholder takes the slot of its original name")
	assert.Same(t, placeholder, d.Find("Wall"))
	assert.Equal(t, 1, d.Len())

	d.Insert(&Texture{Name: "floor"})
	assert.Equal(t, []string{"floor", MissingName("wall")}, d.Names())

	assert.Same(t, placeholder, d.Remove("WALL"))
	assert.Nil(t, d.Find("wall"))

	var degraded *Dictionary
	assert.Nil(t, degraded.Find("x"))
	assert.Zero(t, degraded.Len())
	assert.Empty(t, degraded.Textures())
}
