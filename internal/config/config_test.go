package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Server.BaseURL)
	assert.Equal(t, 220*time.Millisecond, cfg.GetSearchDebounce())
	assert.Equal(t, 2200*time.Millisecond, cfg.GetToastTTL())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://10.1.2.3:9000"
	cfg.Board.Theme = "light"
	cfg.Journal.Enabled = false
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.1.2.3:9000", got.Server.BaseURL)
	assert.Equal(t, "light", got.Board.Theme)
	assert.False(t, got.Journal.Enabled)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://from-file:8000"
	require.NoError(t, cfg.Save(path))

	t.Setenv("SHELFCRAFT_URL", "http://from-env:8000")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", got.Server.BaseURL)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Timeout = "not a duration"
	cfg.Board.SearchDebounce = "-5ms"
	assert.Equal(t, 15*time.Second, cfg.GetTimeout())
	assert.Equal(t, 220*time.Millisecond, cfg.GetSearchDebounce())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Board.Theme = "solarized"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestWatcherDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := DefaultConfig()
	require.NoError(t, cfg.Save(path))

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil)
	require.NoError(t, err)
	w.debounceDur = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg.Server.BaseURL = "http://moved:9000"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-changed:
		assert.Equal(t, "http://moved:9000", got.Server.BaseURL)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was never delivered")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) { changed <- c }, nil)
	require.NoError(t, err)
	w.debounceDur = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0644))

	select {
	case <-changed:
		t.Fatal("unrelated file edit triggered a reload")
	case <-time.After(400 * time.Millisecond):
	}
}
