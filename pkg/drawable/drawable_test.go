package drawable

import (
	"testing"

	"github.com/grovetools/hotload/pkg/texture"
	"github.com/stretchr/testify/assert"
)

func newTestDrawable() *Drawable {
	return &Drawable{
		Name: "car",
		Materials: []*Material{
			{Name: "body", Vars: []*TextureVar{
				{Name: "baseColor", Texture: texture.NewPlaceholder("Wall")},
				{Name: "normal", Texture: texture.NewPlaceholder("wall_n")},
			}},
			{Name: "trim", Vars: []*TextureVar{
				{Name: "baseColor", Texture: texture.NewPlaceholder("wall")},
			}},
		},
	}
}

func TestVarsBoundToIgnoresCase(t *testing.T) {
	d := newTestDrawable()

	assert.Len(t, d.VarsBoundTo("WALL"), 2)
	assert.Len(t, d.VarsBoundTo("wall_n"), 1)
	assert.True(t, d.IsReferenced("Wall"))
	assert.False(t, d.IsReferenced("floor"))
}

func TestRepointAndReplace(t *testing.T) {
	d := newTestDrawable()
	wall := &texture.Texture{Name: "WALL"}

	assert.Equal(t, 2, d.Repoint("wall", wall))
	assert.Equal(t, 0, d.Repoint("wall", wall), "repointing twice changes nothing")
	assert.Same(t, wall, d.Materials[1].Vars[0].Texture)

	other := &texture.Texture{Name: "WALL"}
	assert.Equal(t, 2, d.Replace(wall, other))
	assert.Same(t, other, d.Materials[0].Vars[0].Texture)
}

func TestPlaceholdersAreDistinct(t *testing.T) {
	d := newTestDrawable()
	shared := texture.NewPlaceholder("Wall")
	d.Materials[0].Vars[0].Texture = shared
	d.Materials[1].Vars[0].Texture = shared

	placeholders := d.Placeholders()
	assert.Len(t, placeholders, 2)
	assert.Equal(t, "Wall", placeholders[0].OriginalName())
	assert.Equal(t, "wall_n", placeholders[1].OriginalName())

	var empty *Drawable
	assert.Empty(t, empty.Placeholders())
}
