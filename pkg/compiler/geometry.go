package compiler

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/sirupsen/logrus"
)

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbJSONChunk = 0x4E4F534A // "JSON"
)

type gltfTextureInfo struct {
	Index int `json:"index"`
}

type gltfMaterial struct {
	Name string `json:"name"`
	PBR  *struct {
		BaseColorTexture         *gltfTextureInfo `json:"baseColorTexture"`
		MetallicRoughnessTexture *gltfTextureInfo `json:"metallicRoughnessTexture"`
	} `json:"pbrMetallicRoughness"`
	NormalTexture    *gltfTextureInfo `json:"normalTexture"`
	OcclusionTexture *gltfTextureInfo `json:"occlusionTexture"`
	EmissiveTexture  *gltfTextureInfo `json:"emissiveTexture"`
	AlphaMode        string           `json:"alphaMode"`
}

type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Images []struct {
		URI  string `json:"uri"`
		Name string `json:"name"`
	} `json:"images"`
	Textures []struct {
		Source *int `json:"source"`
	} `json:"textures"`
	Materials []gltfMaterial `json:"materials"`
	Meshes    []struct {
		Name       string `json:"name"`
		Primitives []struct {
			Attributes map[string]int `json:"attributes"`
			Material   *int           `json:"material"`
		} `json:"primitives"`
	} `json:"meshes"`
	Accessors []struct {
		Count int `json:"count"`
	} `json:"accessors"`
	Nodes []struct {
		Name     string `json:"name"`
		Children []int  `json:"children"`
	} `json:"nodes"`
	Skins []struct {
		Name   string `json:"name"`
		Joints []int  `json:"joints"`
	} `json:"skins"`
	Extensions struct {
		Lights *struct {
			Lights []struct {
				Name      string    `json:"name"`
				Type      string    `json:"type"`
				Color     []float64 `json:"color"`
				Intensity *float64  `json:"intensity"`
			} `json:"lights"`
		} `json:"KHR_lights_punctual"`
	} `json:"extensions"`
}

// CompileGeometry compiles the drawable's glTF scene. Texture bindings point at
// placeholders named after the referenced images; the caller resolves them
// against the drawable's dictionaries.
func (c *Default) CompileGeometry(d *asset.DrawableAsset) (*drawable.Drawable, error) {
	doc, err := readGLTF(d.ScenePath)
	if err != nil {
		return nil, err
	}

	out := &drawable.Drawable{Name: d.Name}
	for i, m := range doc.Materials {
		out.Materials = append(out.Materials, doc.material(i, m))
	}

	for _, mesh := range doc.Meshes {
		for i, prim := range mesh.Primitives {
			name := mesh.Name
			if len(mesh.Primitives) > 1 {
				name = fmt.Sprintf("%s_%d", mesh.Name, i)
			}
			material := -1
			if prim.Material != nil {
				material = *prim.Material
			}
			vertices := 0
			if idx, ok := prim.Attributes["POSITION"]; ok && idx >= 0 && idx < len(doc.Accessors) {
				vertices = doc.Accessors[idx].Count
			}
			out.Meshes = append(out.Meshes, drawable.Mesh{Name: name, Material: material, Vertices: vertices})
		}
	}

	out.Skeleton = doc.skeleton()
	out.Lights = doc.lights()

	c.logger().WithFields(logrus.Fields{
		"scene":     d.ScenePath,
		"materials": len(out.Materials),
		"meshes":    len(out.Meshes),
		"lights":    len(out.Lights),
	}).Debug("Compiled geometry")

	return out, nil
}

func readGLTF(scenePath string) (*gltfDocument, error) {
	ext := strings.ToLower(filepath.Ext(scenePath))
	if ext != ".gltf" && ext != ".glb" {
		return nil, errors.UnsupportedFormat(scenePath)
	}

	data, err := os.ReadFile(scenePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AssetNotFound(scenePath)
		}
		return nil, errors.SceneCompileFailed(scenePath, err)
	}

	if ext == ".glb" {
		if data, err = glbJSON(data); err != nil {
			return nil, errors.SceneCompileFailed(scenePath, err)
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.SceneCompileFailed(scenePath, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errors.AssetInvalid(scenePath, fmt.Sprintf("unsupported glTF version %q", doc.Asset.Version))
	}
	return &doc, nil
}

// glbJSON extracts the JSON chunk of a binary glTF container.
func glbJSON(data []byte) ([]byte, error) {
	var header struct {
		Magic, Version, Length uint32
		ChunkLength, ChunkType uint32
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("short glb header: %w", err)
	}
	if header.Magic != glbMagic || header.ChunkType != glbJSONChunk {
		return nil, fmt.Errorf("not a glb container")
	}
	end := 20 + int(header.ChunkLength)
	if end > len(data) {
		return nil, fmt.Errorf("truncated glb JSON chunk")
	}
	return data[20:end], nil
}

func (doc *gltfDocument) material(index int, m gltfMaterial) *drawable.Material {
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("material_%d", index)
	}
	shader := "pbr_opaque"
	if m.AlphaMode != "" {
		shader = "pbr_" + strings.ToLower(m.AlphaMode)
	}

	out := &drawable.Material{Name: name, Shader: shader}
	bind := func(slot string, info *gltfTextureInfo) {
		if info == nil {
			return
		}
		if texName := doc.textureName(info.Index); texName != "" {
			out.Vars = append(out.Vars, &drawable.TextureVar{Name: slot, Texture: texture.NewPlaceholder(texName)})
		}
	}
	if m.PBR != nil {
		bind("baseColor", m.PBR.BaseColorTexture)
		bind("metallicRoughness", m.PBR.MetallicRoughnessTexture)
	}
	bind("normal", m.NormalTexture)
	bind("occlusion", m.OcclusionTexture)
	bind("emissive", m.EmissiveTexture)
	return out
}

// textureName maps a glTF texture index to the dictionary entry name of its image.
func (doc *gltfDocument) textureName(index int) string {
	if index < 0 || index >= len(doc.Textures) || doc.Textures[index].Source == nil {
		return ""
	}
	src := *doc.Textures[index].Source
	if src < 0 || src >= len(doc.Images) {
		return ""
	}
	img := doc.Images[src]
	if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
		// Scenes exported while a placeholder was bound carry its display name.
		if name, ok := texture.DecodeMissingName(img.Name); ok {
			return name
		}
		return img.Name
	}
	uri, err := url.PathUnescape(img.URI)
	if err != nil {
		uri = img.URI
	}
	return asset.TextureName(path.Base(filepath.ToSlash(uri)))
}

func (doc *gltfDocument) skeleton() *drawable.Skeleton {
	if len(doc.Skins) == 0 {
		return nil
	}
	skin := doc.Skins[0]

	parents := make(map[int]int)
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			parents[child] = i
		}
	}
	boneOf := make(map[int]int, len(skin.Joints))
	for i, joint := range skin.Joints {
		boneOf[joint] = i
	}

	sk := &drawable.Skeleton{Name: skin.Name}
	for _, joint := range skin.Joints {
		bone := drawable.Bone{Name: fmt.Sprintf("joint_%d", joint), Parent: -1}
		if joint >= 0 && joint < len(doc.Nodes) && doc.Nodes[joint].Name != "" {
			bone.Name = doc.Nodes[joint].Name
		}
		if parent, ok := parents[joint]; ok {
			if idx, ok := boneOf[parent]; ok {
				bone.Parent = idx
			}
		}
		sk.Bones = append(sk.Bones, bone)
	}
	return sk
}

func (doc *gltfDocument) lights() []drawable.Light {
	if doc.Extensions.Lights == nil {
		return nil
	}
	var lights []drawable.Light
	for _, l := range doc.Extensions.Lights.Lights {
		light := drawable.Light{Name: l.Name, Type: l.Type, Color: [3]float64{1, 1, 1}, Intensity: 1}
		if len(l.Color) == 3 {
			copy(light.Color[:], l.Color)
		}
		if l.Intensity != nil {
			light.Intensity = *l.Intensity
		}
		lights = append(lights, light)
	}
	return lights
}
