package hotload

import (
	"testing"

	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingRegistry(t *testing.T) {
	r := NewMissingRegistry()
	r.Add(&texture.Texture{Name: "wall"})
	assert.Equal(t, 0, r.Len(), "real textures are not orphans")

	rust := texture.NewPlaceholder("rust")
	r.Add(rust)
	r.Add(texture.NewPlaceholder("Decal"))

	assert.Same(t, rust, r.Get("RUST"))
	assert.Equal(t, []string{"Decal", "rust"}, r.Names())
	assert.Same(t, rust, r.Remove("rust"))
	assert.Nil(t, r.Get("rust"))

	var nilRegistry *MissingRegistry
	assert.Nil(t, nilRegistry.Get("rust"))
	assert.Equal(t, 0, nilRegistry.Len())
}

// newBareLive returns a LiveDrawable whose worker never starts, for driving
// the window helpers directly.
func newBareLive(t *testing.T, d *drawable.Drawable) *LiveDrawable {
	t.Helper()
	l := New(testOptions(t, nil))
	t.Cleanup(func() { _ = l.Close() })
	l.pub.drawable = d
	return l
}

func twoVarDrawable(a, b *texture.Texture) *drawable.Drawable {
	return &drawable.Drawable{
		Name: "car",
		Materials: []*drawable.Material{
			{Name: "body", Vars: []*drawable.TextureVar{{Name: "baseColor", Texture: a}}},
			{Name: "trim", Vars: []*drawable.TextureVar{{Name: "baseColor", Texture: b}}},
		},
	}
}

func TestResolveMissingIsIdempotent(t *testing.T) {
	orphan := texture.NewPlaceholder("rust")
	d := twoVarDrawable(orphan, texture.NewPlaceholder("RUST"))
	l := newBareLive(t, d)
	l.pub.orphans.Add(orphan)

	rust := &texture.Texture{Name: "rust"}
	assert.Equal(t, 2, l.resolveMissing(rust))
	assert.Equal(t, 0, l.resolveMissing(rust))
	assert.Equal(t, 0, l.pub.orphans.Len())
	assert.Same(t, rust, d.Materials[0].Vars[0].Texture)
	assert.Same(t, rust, d.Materials[1].Vars[0].Texture)
}

func TestMarkMissingMovesBindingsIntoSlot(t *testing.T) {
	wall := &texture.Texture{Name: "wall"}
	orphan := texture.NewPlaceholder("wall")
	d := twoVarDrawable(wall, orphan)
	l := newBareLive(t, d)
	l.pub.orphans.Add(orphan)

	dict := texture.NewDictionary("common")
	dict.Insert(wall)
	owner := &LiveTxd{path: "/ws/common.itd", dict: dict}

	ph := l.markMissing("wall", owner)
	require.NotNil(t, ph)
	assert.Same(t, ph, dict.Find("wall"))
	assert.Same(t, ph, d.Materials[0].Vars[0].Texture)
	assert.Same(t, ph, d.Materials[1].Vars[0].Texture)
	assert.Nil(t, l.pub.orphans.Get("wall"), "a placeholder lives in exactly one container")
}

func TestMarkMissingRepointsByName(t *testing.T) {
	wall := &texture.Texture{Name: "wall"}
	stale := &texture.Texture{Name: "WALL"}
	d := twoVarDrawable(wall, stale)
	l := newBareLive(t, d)

	dict := texture.NewDictionary("common")
	dict.Insert(wall)
	ph := l.markMissing("Wall", &LiveTxd{path: "/ws/common.itd", dict: dict})

	require.NotNil(t, ph)
	assert.Same(t, ph, d.Materials[0].Vars[0].Texture)
	assert.Same(t, ph, d.Materials[1].Vars[0].Texture, "matched case-insensitively by name")
	assert.False(t, d.IsReferenced("other"))
	assert.True(t, d.IsReferenced("wall"))
	checkContainers(t, Snapshot{
		Drawable:     d,
		Dictionaries: []TxdView{{Name: "common", Dict: dict}},
	})
}

func TestMarkMissingDegradedOwner(t *testing.T) {
	wall := &texture.Texture{Name: "wall"}
	d := twoVarDrawable(wall, wall)
	l := newBareLive(t, d)

	assert.Nil(t, l.markMissing("wall", &LiveTxd{path: "/ws/broken.itd"}))
	assert.Same(t, wall, d.Materials[0].Vars[0].Texture)
}

func TestOrphanizeReusesExistingOrphan(t *testing.T) {
	wall := &texture.Texture{Name: "wall"}
	existing := texture.NewPlaceholder("wall")
	d := twoVarDrawable(wall, existing)
	l := newBareLive(t, d)
	l.pub.orphans.Add(existing)

	l.orphanize(wall)
	assert.Same(t, existing, d.Materials[0].Vars[0].Texture)
	assert.Equal(t, 1, l.pub.orphans.Len())

	unbound := &texture.Texture{Name: "metal"}
	l.orphanize(unbound)
	assert.Nil(t, l.pub.orphans.Get("metal"), "unbound textures leave no orphan")
}
