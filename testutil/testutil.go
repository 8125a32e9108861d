// Package testutil writes fixture workspaces for hotload tests.
package testutil

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// MaterialSpec describes one material of a fixture scene. Texture fields are
// image URIs relative to the scene; empty fields are left out.
type MaterialSpec struct {
	Name      string
	BaseColor string
	Normal    string
	Emissive  string
}

// Workspace is a fixture laid out as level.pack/car.idr/car.gltf with an
// optional embedded dictionary.
type Workspace struct {
	Root      string
	Drawable  string
	Scene     string
	EmbedDict string
}

// NewWorkspace creates an empty workspace with a drawable directory and no scene.
func NewWorkspace(t testing.TB) *Workspace {
	t.Helper()

	root := filepath.Join(t.TempDir(), "level.pack")
	drawable := filepath.Join(root, "car.idr")
	require.NoError(t, os.MkdirAll(drawable, 0755))

	return &Workspace{
		Root:      root,
		Drawable:  drawable,
		Scene:     filepath.Join(drawable, "car.gltf"),
		EmbedDict: filepath.Join(drawable, "textures.itd"),
	}
}

// WriteScene writes the drawable's glTF scene.
func (w *Workspace) WriteScene(t testing.TB, materials ...MaterialSpec) {
	t.Helper()
	WriteGLTF(t, w.Scene, materials...)
}

// AddDict creates a dictionary directory below the workspace root (or at an
// absolute path) holding one PNG per texture file name.
func (w *Workspace) AddDict(t testing.TB, dir string, textures ...string) string {
	t.Helper()

	if !filepath.IsAbs(dir) {
		dir = filepath.Join(w.Root, dir)
	}
	require.NoError(t, os.MkdirAll(dir, 0755))
	for i, name := range textures {
		WritePNG(t, filepath.Join(dir, name), 8, 8, color.RGBA{R: uint8(40 * i), G: 128, B: 200, A: 255})
	}
	return dir
}

// WritePNG writes a solid w×h PNG to path.
func WritePNG(t testing.TB, path string, w, h int, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// WriteGLTF writes a glTF 2.0 scene with one mesh per material, a two-joint
// skin and one punctual light.
func WriteGLTF(t testing.TB, path string, materials ...MaterialSpec) {
	t.Helper()

	var images []map[string]interface{}
	var textures []map[string]interface{}
	textureRef := func(uri string) map[string]interface{} {
		images = append(images, map[string]interface{}{"uri": uri})
		textures = append(textures, map[string]interface{}{"source": len(images) - 1})
		return map[string]interface{}{"index": len(textures) - 1}
	}

	var mats []map[string]interface{}
	var meshes []map[string]interface{}
	for i, m := range materials {
		mat := map[string]interface{}{"name": m.Name}
		if m.BaseColor != "" {
			mat["pbrMetallicRoughness"] = map[string]interface{}{"baseColorTexture": textureRef(m.BaseColor)}
		}
		if m.Normal != "" {
			mat["normalTexture"] = textureRef(m.Normal)
		}
		if m.Emissive != "" {
			mat["emissiveTexture"] = textureRef(m.Emissive)
		}
		mats = append(mats, mat)
		meshes = append(meshes, map[string]interface{}{
			"name": m.Name + "_mesh",
			"primitives": []map[string]interface{}{
				{"attributes": map[string]int{"POSITION": 0}, "material": i},
			},
		})
	}

	doc := map[string]interface{}{
		"asset":     map[string]string{"version": "2.0"},
		"images":    images,
		"textures":  textures,
		"materials": mats,
		"meshes":    meshes,
		"nodes":     []map[string]string{{"name": "root"}, {"name": "spine"}},
		"skins":     []map[string]interface{}{{"name": "rig", "joints": []int{0, 1}}},
		"extensions": map[string]interface{}{
			"KHR_lights_punctual": map[string]interface{}{
				"lights": []map[string]interface{}{{"name": "key", "type": "point", "intensity": 2.0}},
			},
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	WriteFile(t, path, string(data))
}
