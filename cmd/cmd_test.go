package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/hotload/cli"
	"github.com/grovetools/hotload/config"
	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/logging"
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/compiler"
	"github.com/grovetools/hotload/pkg/hotload"
	"github.com/grovetools/hotload/pkg/watcher/watchertest"
	"github.com/grovetools/hotload/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewStandardCommand("hotload", "test")
	root.AddCommand(NewConfigCmd(), NewVersionCmd(), NewWatchCmd(), NewPathsCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPathsHonorsHotloadHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOTLOAD_HOME", home)

	out, err := runRoot(t, "paths")
	require.NoError(t, err)

	var got PathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, filepath.Join(home, "config"), got.ConfigDir)
	assert.Equal(t, filepath.Join(home, "state", "hotload.log"), got.LogFile)
}

func TestConfigSchema(t *testing.T) {
	out, err := runRoot(t, "config", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "debounce_ms")
	assert.Contains(t, out, "Hotload Configuration")
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotload.yml")
	testutil.WriteFile(t, path, "assets:\n  embed_dict_name: bundled\n")

	out, err := runRoot(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "embed_dict_name: bundled")
	assert.Contains(t, out, "debounce_ms: 100")
}

func TestVersionJSON(t *testing.T) {
	out, err := runRoot(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "hotload"`)
}

func TestWatchRejectsNonDrawable(t *testing.T) {
	_, err := runRoot(t, "watch", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAssetInvalid), "got %v", err)
}

func TestPollLoopLogsChanges(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.AddDict(t, ws.EmbedDict, "wall.png")
	ws.WriteScene(t, testutil.MaterialSpec{Name: "body", BaseColor: "textures.itd/wall.png"})

	cfg := config.Default()
	live := hotload.New(hotload.Options{
		Compiler: compiler.NewDefault(cfg.Compiler),
		Store:    asset.NewFileStore(cfg.Assets.EmbedDictName, logging.NewDiscardLogger("test.store")),
		Watchers: watchertest.New(4).Factory(),
		Logger:   logging.NewDiscardLogger("test.worker"),
	})
	defer live.Close()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	live.RequestLoad(ws.Drawable, false)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pollLoop(ctx, live, 5*time.Millisecond, logger.WithField("component", "test")))

	assert.Contains(t, buf.String(), "Change applied")
	assert.Contains(t, buf.String(), `"flags":"compiled|txd"`)
	assert.Contains(t, buf.String(), `"asset":"car"`)
	assert.Contains(t, buf.String(), `"instance":"`+live.ID()[:8]+`"`)
}
