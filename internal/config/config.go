package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Planner   PlannerConfig   `yaml:"planner" mapstructure:"planner"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the event catalog.
type CatalogConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// ArtifactsConfig controls where stage hand-off files are written.
type ArtifactsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ScorerConfig configures relevance scoring.
type ScorerConfig struct {
	TourismBias       float64  `yaml:"tourism_bias" mapstructure:"tourism_bias"`
	TourismCategories []string `yaml:"tourism_categories" mapstructure:"tourism_categories"`
}

// PlannerConfig configures plan construction.
type PlannerConfig struct {
	FlexibleKeywords []string `yaml:"flexible_keywords" mapstructure:"flexible_keywords"`
	RelevanceWeight  float64  `yaml:"relevance_weight" mapstructure:"relevance_weight"`
	DensityWeight    float64  `yaml:"density_weight" mapstructure:"density_weight"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds settings for the interest extraction and itinerary
// narration collaborators.
type AnthropicConfig struct {
	Key         string   `yaml:"key" mapstructure:"key"`
	Keys        []string `yaml:"keys" mapstructure:"keys"`
	Model       string   `yaml:"model" mapstructure:"model"`
	MaxTokens   int64    `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// APIKeys returns the configured keys in order, Keys first, deduplicated.
func (a AnthropicConfig) APIKeys() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range append(append([]string(nil), a.Keys...), a.Key) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.path", "india_events_2000_tourism_2026_latlon.csv")
	v.SetDefault("artifacts.dir", ".")
	v.SetDefault("scorer.tourism_bias", 0.4)
	v.SetDefault("scorer.tourism_categories", []string{
		"seaside_beach", "cultural_heritage", "heritage_walk",
		"sunset_view", "sunrise_view", "mountain_climbing",
		"boating_cruise", "lake_activity", "island_experience",
		"river_ghat", "desert_experience", "snow_activity",
		"wildlife_safari", "forest_trail",
	})
	v.SetDefault("planner.flexible_keywords", []string{"explore", "attractions"})
	v.SetDefault("planner.relevance_weight", 0.5)
	v.SetDefault("planner.density_weight", 0.5)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "trip-planner.db")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("anthropic.timeout_secs", 120)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "pipeline":
		if strings.TrimSpace(c.Catalog.Path) == "" {
			errs = append(errs, "catalog.path is required")
		}
	case "llm":
		if len(c.Anthropic.APIKeys()) == 0 {
			errs = append(errs, "anthropic.key or anthropic.keys is required")
		}
		if c.Anthropic.MaxTokens <= 0 {
			errs = append(errs, "anthropic.max_tokens must be > 0")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if strings.TrimSpace(c.Catalog.Path) == "" {
			errs = append(errs, "catalog.path is required")
		}
	case "store":
		switch c.Store.Driver {
		case "sqlite", "postgres":
			if strings.TrimSpace(c.Store.DatabaseURL) == "" {
				errs = append(errs, "store.database_url is required")
			}
		case "none", "":
		default:
			errs = append(errs, fmt.Sprintf("store.driver %q must be sqlite, postgres or none", c.Store.Driver))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed (%s): %s", mode, strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
