package asset

import (
	"path/filepath"
	"testing"

	"github.com/grovetools/hotload/errors"
	"github.com/stretchr/testify/assert"
)

func TestPathClassification(t *testing.T) {
	testCases := []struct {
		path     string
		txd      bool
		drawable bool
		texture  bool
		scene    bool
	}{
		{"/w/level.pack/car.idr", false, true, false, false},
		{"/w/level.pack/car.idr/textures.ITD", true, false, false, false},
		{"/w/level.pack/car.idr/car.gltf", false, false, false, true},
		{"/w/level.pack/car.idr/textures.itd/Wall.PNG", false, false, true, false},
		{"/w/level.pack/car.idr/textures.itd/notes.txt", false, false, false, false},
		{"/w/level.pack/car.idr/textures.itd/anim.gif", false, false, true, false},
		{"/w/level.pack/car.idr/textures.itd/layers.psd", false, false, false, false},
	}

	for _, tc := range testCases {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			assert.Equal(t, tc.txd, IsTxdPath(tc.path))
			assert.Equal(t, tc.drawable, IsDrawablePath(tc.path))
			assert.Equal(t, tc.texture, IsSupportedTexture(tc.path))
			assert.Equal(t, tc.scene, IsSceneFile(tc.path))
		})
	}
}

func TestPathHashIgnoresCase(t *testing.T) {
	assert.Equal(t, PathHash("/a/B/wall.png"), PathHash("/A/b/WALL.PNG"))
	assert.Equal(t, PathHash("/a/b/"), PathHash("/a/b"))
	assert.NotEqual(t, PathHash("/a/b"), PathHash("/a/c"))
	assert.True(t, SamePath("/a/./b", "/A/B"))
}

func TestTextureName(t *testing.T) {
	assert.Equal(t, "Wall", TextureName("/x/textures.itd/Wall.png"))
	assert.Equal(t, "textures", TextureName("/x/textures.itd"))
}

func TestValidateTextureName(t *testing.T) {
	assert.NoError(t, ValidateTextureName("wall_01"))
	for _, bad := range []string{"", "wäll", "a##b", "tab\tname"} {
		err := ValidateTextureName(bad)
		assert.True(t, errors.Is(err, errors.ErrCodeAssetInvalid), "name %q", bad)
	}
}

func TestTxdPathFromTexture(t *testing.T) {
	dir, ok := TxdPathFromTexture("/w/common.itd/wall.png")
	assert.True(t, ok)
	assert.Equal(t, "/w/common.itd", dir)

	_, ok = TxdPathFromTexture("/w/car.idr/car.gltf")
	assert.False(t, ok)
}

func TestWorkspaceOf(t *testing.T) {
	assert.Equal(t, "/w/level.pack", WorkspaceOf("/w/level.pack/car.idr"))
	assert.Equal(t, "", WorkspaceOf("/w/loose/car.idr"))
}

func TestIsWithinAndRebase(t *testing.T) {
	assert.True(t, IsWithin("/w/a.itd", "/w/a.itd/x.png"))
	assert.True(t, IsWithin("/w/a.itd", "/W/A.itd"))
	assert.False(t, IsWithin("/w/a.itd", "/w/a.itdx/x.png"))
	assert.False(t, IsWithin("", "/w"))

	assert.Equal(t, "/w/b.itd/x.png", Rebase("/w/a.itd/x.png", "/w/a.itd", "/w/b.itd"))
	assert.Equal(t, "/w/b.itd", Rebase("/w/a.itd", "/w/a.itd", "/w/b.itd"))
	assert.Equal(t, "/other/x.png", Rebase("/other/x.png", "/w/a.itd", "/w/b.itd"))
}
