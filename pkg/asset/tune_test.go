package asset

import (
	"testing"

	"github.com/grovetools/hotload/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTuneStoreCreateAndFind(t *testing.T) {
	store := NewTuneStore()

	rec, err := store.Create("/d.itd/Wall.png", TuneOptions{MaxSize: 256})
	require.NoError(t, err)
	assert.Equal(t, "Wall", rec.Name())

	assert.Same(t, rec, store.FindByPath("/D.ITD/wall.PNG"))
	assert.Same(t, rec, store.FindByName("WALL"))
	assert.Nil(t, store.FindByName("floor"))

	same, err := store.GetOrCreate("/d.itd/Wall.png")
	require.NoError(t, err)
	assert.Same(t, rec, same)
	assert.Equal(t, 1, store.Len())
}

func TestTuneStoreRejectsDuplicateNames(t *testing.T) {
	store := NewTuneStore()
	_, err := store.Create("/d.itd/wall.png", TuneOptions{})
	require.NoError(t, err)

	_, err = store.Create("/d.itd/WALL.jpg", TuneOptions{})
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateTexture))

	_, err = store.Create("/d.itd/wall.png", TuneOptions{})
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateTexture))
}

func TestTuneStoreRename(t *testing.T) {
	store := NewTuneStore()
	rec, err := store.Create("/d.itd/wall.png", TuneOptions{Format: "bc7"})
	require.NoError(t, err)
	_, err = store.Create("/d.itd/floor.png", TuneOptions{})
	require.NoError(t, err)

	renamed, err := store.Rename("/d.itd/wall.png", "/d.itd/brick.png")
	require.NoError(t, err)
	assert.Same(t, rec, renamed)
	assert.Equal(t, "bc7", renamed.Options.Format)
	assert.Nil(t, store.FindByPath("/d.itd/wall.png"))

	// Round trip back to the original name
	back, err := store.Rename("/d.itd/brick.png", "/d.itd/wall.png")
	require.NoError(t, err)
	assert.Equal(t, "/d.itd/wall.png", back.Path)

	// Case-only renames keep the same key
	_, err = store.Rename("/d.itd/wall.png", "/d.itd/Wall.png")
	require.NoError(t, err)
	assert.Equal(t, "Wall", store.FindByName("wall").Name())

	_, err = store.Rename("/d.itd/Wall.png", "/d.itd/floor.jpg")
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateTexture))

	_, err = store.Rename("/d.itd/nope.png", "/d.itd/x.png")
	assert.True(t, errors.Is(err, errors.ErrCodeTuneNotFound))
	assert.Equal(t, 2, store.Len())
}

func TestTuneStoreRebase(t *testing.T) {
	store := NewTuneStore()
	_, err := store.Create("/old.itd/a.png", TuneOptions{})
	require.NoError(t, err)
	_, err = store.Create("/old.itd/b.png", TuneOptions{})
	require.NoError(t, err)

	store.Rebase("/old.itd", "/new.itd")

	assert.NotNil(t, store.FindByPath("/new.itd/a.png"))
	assert.Nil(t, store.FindByPath("/old.itd/a.png"))
	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, "/new.itd/a.png", all[0].Path)
	assert.Equal(t, "/new.itd/b.png", all[1].Path)
}

func TestTuneStoreKeepMissing(t *testing.T) {
	prev := NewTuneStore()
	gone, err := prev.Create("/d.itd/wall.png", TuneOptions{MaxSize: 16})
	require.NoError(t, err)
	gone.Missing = true
	back, err := prev.Create("/d.itd/floor.png", TuneOptions{})
	require.NoError(t, err)
	back.Missing = true
	_, err = prev.Create("/d.itd/metal.png", TuneOptions{})
	require.NoError(t, err)

	store := NewTuneStore()
	_, err = store.Create("/d.itd/floor.jpg", TuneOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.KeepMissing(prev))
	kept := store.FindByName("wall")
	require.NotNil(t, kept)
	assert.True(t, kept.Missing)
	assert.Equal(t, 16, kept.Options.MaxSize)
	assert.NotSame(t, gone, kept)
	assert.False(t, store.FindByName("floor").Missing, "a source on disk wins over the missing record")
	assert.Nil(t, store.FindByName("metal"), "present records are not carried over")
}
