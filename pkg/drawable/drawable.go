// Package drawable is the compiled, render-ready form of a drawable asset.
package drawable

import (
	"sort"
	"strings"

	"github.com/grovetools/hotload/pkg/texture"
)

// TextureVar is a material slot bound to a texture.
type TextureVar struct {
	Name    string
	Texture *texture.Texture
}

// Material is a shader with its texture bindings.
type Material struct {
	Name   string
	Shader string
	Vars   []*TextureVar
}

// Mesh is geometry drawn with one material.
type Mesh struct {
	Name     string
	Material int
	Vertices int
}

// Bone is a joint of the skeleton.
type Bone struct {
	Name   string
	Parent int
}

// Skeleton drives skinned meshes.
type Skeleton struct {
	Name  string
	Bones []Bone
}

// Light is a punctual light bundled with the drawable.
type Light struct {
	Name      string
	Type      string
	Color     [3]float64
	Intensity float64
}

// Drawable is a compiled model: geometry, materials, skeleton and lights.
type Drawable struct {
	Name      string
	Materials []*Material
	Meshes    []Mesh
	Skeleton  *Skeleton
	Lights    []Light

	// EmbeddedDict is the dictionary bundled with the drawable, nil when it
	// has none or it is degraded.
	EmbeddedDict *texture.Dictionary
}

// EachTextureVar calls fn for every texture binding of every material.
func (d *Drawable) EachTextureVar(fn func(m *Material, v *TextureVar)) {
	if d == nil {
		return
	}
	for _, m := range d.Materials {
		for _, v := range m.Vars {
			fn(m, v)
		}
	}
}

// VarsBoundTo returns the bindings whose texture's original name matches name,
// ignoring case.
func (d *Drawable) VarsBoundTo(name string) []*TextureVar {
	var vars []*TextureVar
	d.EachTextureVar(func(_ *Material, v *TextureVar) {
		if v.Texture != nil && strings.EqualFold(v.Texture.OriginalName(), name) {
			vars = append(vars, v)
		}
	})
	return vars
}

// IsReferenced reports whether any material binds a texture called name.
func (d *Drawable) IsReferenced(name string) bool {
	return len(d.VarsBoundTo(name)) > 0
}

// Placeholders returns the distinct placeholder textures bound by materials,
// sorted by original name.
func (d *Drawable) Placeholders() []*texture.Texture {
	seen := make(map[*texture.Texture]bool)
	var out []*texture.Texture
	d.EachTextureVar(func(_ *Material, v *TextureVar) {
		if v.Texture.IsPlaceholder() && !seen[v.Texture] {
			seen[v.Texture] = true
			out = append(out, v.Texture)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].OriginalName()) < strings.ToLower(out[j].OriginalName())
	})
	return out
}

// Repoint binds every variable currently bound to a texture called name to tex
// and returns how many bindings changed.
func (d *Drawable) Repoint(name string, tex *texture.Texture) int {
	n := 0
	for _, v := range d.VarsBoundTo(name) {
		if v.Texture != tex {
			v.Texture = tex
			n++
		}
	}
	return n
}

// Replace binds every variable bound to the object old to tex.
func (d *Drawable) Replace(old, tex *texture.Texture) int {
	n := 0
	d.EachTextureVar(func(_ *Material, v *TextureVar) {
		if v.Texture == old && old != tex {
			v.Texture = tex
			n++
		}
	})
	return n
}

// IsBound reports whether any material binds the object tex.
func (d *Drawable) IsBound(tex *texture.Texture) bool {
	bound := false
	d.EachTextureVar(func(_ *Material, v *TextureVar) {
		if v.Texture == tex {
			bound = true
		}
	})
	return bound
}
