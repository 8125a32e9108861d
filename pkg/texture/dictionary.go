package texture

import (
	"sort"
	"strings"
)

// Dictionary is a named set of textures keyed case-insensitively by their
// original name. A placeholder occupies the slot of the texture it stands in for.
type Dictionary struct {
	Name     string
	textures map[string]*Texture
}

// NewDictionary creates an empty dictionary.
func NewDictionary(name string) *Dictionary {
	return &Dictionary{Name: name, textures: make(map[string]*Texture)}
}

func key(name string) string {
	return strings.ToLower(name)
}

// Insert stores tex under its original name and returns the texture it replaced.
func (d *Dictionary) Insert(tex *Texture) *Texture {
	k := key(tex.OriginalName())
	old := d.textures[k]
	d.textures[k] = tex
	if old == tex {
		return nil
	}
	return old
}

// Find returns the texture stored under name, or nil.
func (d *Dictionary) Find(name string) *Texture {
	if d == nil {
		return nil
	}
	return d.textures[key(name)]
}

// Remove deletes and returns the texture stored under name.
func (d *Dictionary) Remove(name string) *Texture {
	k := key(name)
	tex := d.textures[k]
	delete(d.textures, k)
	return tex
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.textures)
}

// Names returns the display names sorted case-insensitively.
func (d *Dictionary) Names() []string {
	textures := d.Textures()
	names := make([]string, len(textures))
	for i, tex := range textures {
		names[i] = tex.Name
	}
	return names
}

// Textures returns the textures sorted by original name.
func (d *Dictionary) Textures() []*Texture {
	if d == nil {
		return nil
	}
	textures := make([]*Texture, 0, len(d.textures))
	for _, tex := range d.textures {
		textures = append(textures, tex)
	}
	sort.Slice(textures, func(i, j int) bool {
		return key(textures[i].OriginalName()) < key(textures[j].OriginalName())
	})
	return textures
}
