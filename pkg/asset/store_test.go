package asset

import (
	"path/filepath"
	"testing"

	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *FileStore {
	return NewFileStore("", logrus.NewEntry(logrus.New()))
}

func TestLoadDrawable(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.WriteScene(t, testutil.MaterialSpec{Name: "body", BaseColor: "paint.png"})
	testutil.WriteFile(t, filepath.Join(ws.Drawable, "aaa.obj"), "")

	d, err := newTestStore().LoadDrawable(ws.Drawable)
	require.NoError(t, err)

	assert.Equal(t, "car", d.Name)
	assert.Equal(t, ws.Scene, d.ScenePath, "scene named after the drawable wins")
	assert.Equal(t, ws.EmbedDict, d.EmbedDictPath)
	assert.Equal(t, ws.Root, d.WorkspacePath)
	assert.Equal(t, ws.Root, d.WatchRoot())
	assert.Equal(t, "textures", d.EmbedDictName())
}

func TestLoadDrawableErrors(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	store := newTestStore()

	_, err := store.LoadDrawable(ws.Drawable)
	assert.True(t, errors.Is(err, errors.ErrCodeAssetInvalid), "no scene file")

	_, err = store.LoadDrawable(filepath.Join(ws.Root, "gone.idr"))
	assert.True(t, errors.Is(err, errors.ErrCodeAssetNotFound))

	_, err = store.LoadDrawable(ws.Root)
	assert.True(t, errors.Is(err, errors.ErrCodeAssetInvalid))
}

func TestDrawableSetPath(t *testing.T) {
	d := &DrawableAsset{
		Path:          "/w/car.idr",
		Name:          "car",
		ScenePath:     "/w/car.idr/car.gltf",
		EmbedDictPath: "/w/car.idr/textures.itd",
	}
	info := d.Info()

	d.SetPath("/w/truck.idr")
	assert.Equal(t, "truck", d.Name)
	assert.Equal(t, "/w/truck.idr/car.gltf", d.ScenePath)
	assert.Equal(t, "/w/truck.idr/textures.itd", d.EmbedDictPath)
	assert.Equal(t, "/w/car.idr", info.Path, "published copies are not affected")
	assert.Equal(t, "/w/truck.idr", d.WatchRoot(), "without a workspace the drawable itself is watched")
}

func TestLoadTxdReadsTunes(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	dir := ws.AddDict(t, ws.EmbedDict, "Wall.png", "floor.png", "floor.jpg")
	testutil.WriteFile(t, filepath.Join(dir, "readme.txt"), "not a texture")
	testutil.WriteFile(t, filepath.Join(dir, TuneFileName), "textures:\n  wall:\n    max_size: 64\n    format: bc1\n")

	txd, err := newTestStore().LoadTxd(dir)
	require.NoError(t, err)

	assert.Equal(t, "textures", txd.Name)
	assert.Equal(t, 2, txd.Tunes.Len(), "duplicate floor is skipped")
	wall := txd.Tunes.FindByName("Wall")
	require.NotNil(t, wall)
	assert.Equal(t, 64, wall.Options.MaxSize)
	assert.Equal(t, "bc1", wall.Options.Format)
}

func TestLoadTxdBadTuneFile(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	dir := ws.AddDict(t, "shared/common.itd", "a.png")
	testutil.WriteFile(t, filepath.Join(dir, TuneFileName), "textures: [unclosed")

	_, err := newTestStore().LoadTxd(dir)
	assert.True(t, errors.Is(err, errors.ErrCodeAssetInvalid))
}

func TestTxdSetPath(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	dir := ws.AddDict(t, "shared/common.itd", "a.png")
	txd, err := newTestStore().LoadTxd(dir)
	require.NoError(t, err)

	moved := filepath.Join(ws.Root, "shared", "base.itd")
	txd.SetPath(moved)
	assert.Equal(t, "base", txd.Name)
	assert.NotNil(t, txd.Tunes.FindByPath(filepath.Join(moved, "a.png")))
}

func TestWorkspaceTxds(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.AddDict(t, ws.EmbedDict, "a.png")
	shared := ws.AddDict(t, "shared/common.itd", "b.png")
	props := ws.AddDict(t, "props.itd", "c.png")
	ws.AddDict(t, "other.idr/textures.itd", "d.png")

	txds, err := newTestStore().WorkspaceTxds(ws.Root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{shared, props}, txds)

	none, err := newTestStore().WorkspaceTxds("")
	require.NoError(t, err)
	assert.Empty(t, none)
}
