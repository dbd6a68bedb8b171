package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestStore_LoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(tempConfigPath(t))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)
	store := NewStore(path)

	settings := DefaultSettings()
	settings.WatchedSymbols = []string{"ES", "GC"}
	settings.Timeframe = "4H"
	settings.AutoUpdateInterval = 120
	settings.SqueezeThreshold = -12.5
	require.NoError(t, store.Save(settings))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ES", "GC"}, loaded.WatchedSymbols)
	assert.Equal(t, "4H", loaded.Timeframe)
	assert.Equal(t, 120, loaded.AutoUpdateInterval)
	assert.Equal(t, -12.5, loaded.SqueezeThreshold)
}

func TestStore_PreservesUnknownKeys(t *testing.T) {
	path := tempConfigPath(t)

	// 新しいバージョンが書いたかもしれない未知のキーを含むファイル
	original := map[string]any{
		"watched_symbols": []string{"ES"},
		"timeframe":       "1D",
		"future_feature":  "keep me",
		"nested": map[string]any{
			"key": 42,
		},
	}
	data, err := yaml.Marshal(original)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := NewStore(path)
	settings, err := store.Load()
	require.NoError(t, err)

	settings.Timeframe = "4H"
	require.NoError(t, store.Save(settings))

	// 保存後も未知キーが残っている
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	reloaded := map[string]any{}
	require.NoError(t, yaml.Unmarshal(saved, &reloaded))

	assert.Equal(t, "keep me", reloaded["future_feature"])
	assert.Equal(t, "4H", reloaded["timeframe"])
	nested, ok := reloaded["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 42, nested["key"])
}

func TestStore_MissingKeysFallBackToDefaults(t *testing.T) {
	path := tempConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("timeframe: 15m\n"), 0o644))

	settings, err := NewStore(path).Load()
	require.NoError(t, err)

	defaults := DefaultSettings()
	assert.Equal(t, "15m", settings.Timeframe)
	assert.Equal(t, defaults.WatchedSymbols, settings.WatchedSymbols)
	assert.Equal(t, defaults.AutoUpdateInterval, settings.AutoUpdateInterval)
	assert.Equal(t, defaults.SqueezeThreshold, settings.SqueezeThreshold)
}

func TestStore_InvalidValuesFallBackToDefaults(t *testing.T) {
	path := tempConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("timeframe: 2m\nauto_update_interval: -5\n"), 0o644))

	settings, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Timeframe, settings.Timeframe)
	assert.Equal(t, DefaultSettings().AutoUpdateInterval, settings.AutoUpdateInterval)
}

func TestStore_CorruptFileReturnsDefaultsWithError(t *testing.T) {
	path := tempConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("watched_symbols: [ES"), 0o644))

	settings, err := NewStore(path).Load()
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestSettings_Thresholds(t *testing.T) {
	settings := DefaultSettings()
	th := settings.Thresholds()
	assert.Equal(t, -10.0, th.Squeeze)
	assert.Equal(t, 10.0, th.Trend)
	assert.Equal(t, 2.0, th.ROCSqueeze)
	assert.Equal(t, 3.0, th.ROCTrend)
}
