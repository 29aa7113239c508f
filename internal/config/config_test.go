package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "india_events_2000_tourism_2026_latlon.csv", cfg.Catalog.Path)
	assert.Equal(t, ".", cfg.Artifacts.Dir)
	assert.InDelta(t, 0.4, cfg.Scorer.TourismBias, 0.0001)
	assert.Len(t, cfg.Scorer.TourismCategories, 14)
	assert.Contains(t, cfg.Scorer.TourismCategories, "heritage_walk")
	assert.Equal(t, []string{"explore", "attractions"}, cfg.Planner.FlexibleKeywords)
	assert.InDelta(t, 0.5, cfg.Planner.RelevanceWeight, 0.0001)
	assert.InDelta(t, 0.5, cfg.Planner.DensityWeight, 0.0001)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "trip-planner.db", cfg.Store.DatabaseURL)
	assert.Equal(t, int64(8192), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
catalog:
  path: events.xlsx
  sheet: Events
scorer:
  tourism_bias: 0.25
store:
  driver: none
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "events.xlsx", cfg.Catalog.Path)
	assert.Equal(t, "Events", cfg.Catalog.Sheet)
	assert.InDelta(t, 0.25, cfg.Scorer.TourismBias, 0.0001)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.5, cfg.Planner.DensityWeight, 0.0001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("TRIP_STORE_DRIVER", "postgres")
	t.Setenv("TRIP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func TestAPIKeys_OrderAndDedup(t *testing.T) {
	a := AnthropicConfig{Key: "k1", Keys: []string{" k2 ", "k1", "", "k3"}}
	assert.Equal(t, []string{"k2", "k1", "k3"}, a.APIKeys())
	assert.Empty(t, AnthropicConfig{}.APIKeys())
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Catalog.Path = "events.csv"
	cfg.Server.Port = 8080
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "runs.db"
	cfg.Anthropic.Key = "sk-ant"
	cfg.Anthropic.MaxTokens = 1024

	for _, mode := range []string{"pipeline", "llm", "serve", "store"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}

	cfg.Anthropic.Key = ""
	err := cfg.Validate("llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key or anthropic.keys is required")

	cfg.Store.Driver = "mysql"
	err = cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `store.driver "mysql"`)

	cfg.Store.Driver = "none"
	cfg.Store.DatabaseURL = ""
	assert.NoError(t, cfg.Validate("store"))

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate("serve"))

	err = cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
