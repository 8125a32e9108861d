// Package texture holds compiled textures, missing-texture placeholders and
// texture dictionaries.
package texture

import (
	"image"
	"image/color"
	"strings"
)

const (
	missingSuffix = " (Missing)"
	missingTag    = "##$MT_"

	placeholderSize = 32
	placeholderCell = 4
)

// Texture is a compiled texture. A placeholder carries the name of the texture
// it stands in for.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Levels is the mip chain, largest first.
	Levels []*image.RGBA
	// Source is the file the texture was compiled from, empty for placeholders.
	Source string

	missing string
}

// Missing reports whether t is a placeholder and returns the name it stands in for.
func (t *Texture) Missing() (string, bool) {
	if t == nil || t.missing == "" {
		return "", false
	}
	return t.missing, true
}

// IsPlaceholder reports whether t stands in for a missing texture.
func (t *Texture) IsPlaceholder() bool {
	_, ok := t.Missing()
	return ok
}

// OriginalName is the name references are matched against: the stood-in name
// for placeholders, the texture name otherwise.
func (t *Texture) OriginalName() string {
	if name, ok := t.Missing(); ok {
		return name
	}
	return t.Name
}

// SetName renames the texture. Placeholders keep their encoded display name
// in sync.
func (t *Texture) SetName(name string) {
	if t.missing != "" {
		t.missing = name
		t.Name = MissingName(name)
		return
	}
	t.Name = name
}

// MissingName is the display name of the placeholder standing in for name.
func MissingName(name string) string {
	return name + missingSuffix + missingTag + name
}

// DecodeMissingName recovers the original name from a placeholder display name.
func DecodeMissingName(display string) (string, bool) {
	idx := strings.LastIndex(display, missingTag)
	if idx < 0 {
		return "", false
	}
	name := display[idx+len(missingTag):]
	if name == "" || display[:idx] != name+missingSuffix {
		return "", false
	}
	return name, true
}

// NewPlaceholder builds the checker texture standing in for name.
func NewPlaceholder(name string) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			if (x/placeholderCell+y/placeholderCell)%2 == 0 {
				img.SetRGBA(x, y, magenta)
			} else {
				img.SetRGBA(x, y, black)
			}
		}
	}

	return &Texture{
		Name:    MissingName(name),
		Width:   placeholderSize,
		Height:  placeholderSize,
		Levels:  []*image.RGBA{img},
		missing: name,
	}
}
