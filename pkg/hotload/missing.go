package hotload

import (
	"sort"
	"strings"

	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/texture"
)

// MissingRegistry holds orphan placeholders: stand-ins for textures whose
// owning dictionary no longer exists or never supplied them.
type MissingRegistry struct {
	byName map[string]*texture.Texture
}

// NewMissingRegistry creates an empty registry.
func NewMissingRegistry() *MissingRegistry {
	return &MissingRegistry{byName: make(map[string]*texture.Texture)}
}

// Add registers a placeholder under the name it stands in for. Real textures
// are ignored.
func (r *MissingRegistry) Add(ph *texture.Texture) {
	name, ok := ph.Missing()
	if !ok {
		return
	}
	r.byName[strings.ToLower(name)] = ph
}

// Remove drops and returns the orphan for name.
func (r *MissingRegistry) Remove(name string) *texture.Texture {
	key := strings.ToLower(name)
	ph := r.byName[key]
	delete(r.byName, key)
	return ph
}

// Get returns the orphan for name, or nil.
func (r *MissingRegistry) Get(name string) *texture.Texture {
	if r == nil {
		return nil
	}
	return r.byName[strings.ToLower(name)]
}

func (r *MissingRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byName)
}

// Names returns the original names of all orphans, sorted.
func (r *MissingRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byName))
	for _, ph := range r.byName {
		names = append(names, ph.OriginalName())
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
	return names
}

// The functions below mutate published state and run inside a gate window.

// markMissing puts a placeholder for name into owner's slot and binds every
// reference to a texture of that name to it, whatever object it was bound
// to. An orphan of the same name is dropped. A degraded owner has no slot and
// nothing changes.
func (l *LiveDrawable) markMissing(name string, owner *LiveTxd) *texture.Texture {
	if owner == nil || owner.dict == nil {
		return nil
	}

	ph := texture.NewPlaceholder(name)
	l.pub.drawable.Repoint(name, ph)
	l.pub.orphans.Remove(name)
	owner.dict.Insert(ph)
	return ph
}

// resolveMissing binds every reference waiting on a placeholder for tex's name
// to tex and drops the orphan of that name. Resolving twice is a no-op.
func (l *LiveDrawable) resolveMissing(tex *texture.Texture) int {
	name := tex.OriginalName()
	n := 0
	l.pub.drawable.EachTextureVar(func(_ *drawable.Material, v *drawable.TextureVar) {
		if v.Texture == tex || !v.Texture.IsPlaceholder() {
			return
		}
		if strings.EqualFold(v.Texture.OriginalName(), name) {
			v.Texture = tex
			n++
		}
	})
	if orphan := l.pub.orphans.Get(name); orphan != nil && orphan != tex {
		l.pub.orphans.Remove(name)
	}
	return n
}

// orphanize moves references to tex onto an orphan placeholder for its name,
// reusing an existing orphan or tex itself when it already is a placeholder.
func (l *LiveDrawable) orphanize(tex *texture.Texture) {
	d := l.pub.drawable
	if !d.IsBound(tex) {
		return
	}
	name := tex.OriginalName()
	ph := l.pub.orphans.Get(name)
	if ph == nil {
		if tex.IsPlaceholder() {
			ph = tex
		} else {
			ph = texture.NewPlaceholder(name)
		}
		l.pub.orphans.Add(ph)
	}
	d.Replace(tex, ph)
}
