// Package config loads yamlviz settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, $XDG_CONFIG_HOME/yamlviz/config.toml unless a path is given
//  3. environment variables (YAMLVIZ_FIX_API_KEY, falling back to
//     ANTHROPIC_API_KEY; YAMLVIZ_REDIS_URL; YAMLVIZ_MONGO_URI; YAMLVIZ_CACHE)
//  4. command-line flags, applied by the CLI
//
// A missing default file is not an error. The merged result is checked with
// struct-tag validation before it is returned.
//
// Example file:
//
//	[layout]
//	direction = "LR"
//	node_width = 200
//
//	[fix]
//	model = "claude-sonnet-4-5"
//	timeout = "90s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/yamlviz/pkg/cache"
	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/fix"
	"github.com/matzehuels/yamlviz/pkg/layout"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
	"github.com/matzehuels/yamlviz/pkg/tree"
)

// Environment variables read by Load.
const (
	EnvFixAPIKey       = "YAMLVIZ_FIX_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvRedisURL        = "YAMLVIZ_REDIS_URL"
	EnvMongoURI        = "YAMLVIZ_MONGO_URI"
	EnvCacheBackend    = "YAMLVIZ_CACHE"
)

// Duration is a time.Duration written as a string such as "90s" in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the complete configuration.
type Config struct {
	Layout Layout `toml:"layout"`
	Fix    Fix    `toml:"fix"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Layout holds the drawing options.
type Layout struct {
	Direction  string  `toml:"direction" validate:"oneof=TB BT LR RL tb bt lr rl"`
	NodeWidth  float64 `toml:"node_width" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" validate:"gt=0"`
	NodeSep    float64 `toml:"node_sep" validate:"gte=0"`
	RankSep    float64 `toml:"rank_sep" validate:"gte=0"`
	RootLabel  string  `toml:"root_label" validate:"required"`
}

// Fix holds the remote auto-fix settings.
type Fix struct {
	Endpoint  string   `toml:"endpoint" validate:"required,http_url"`
	Model     string   `toml:"model" validate:"required"`
	MaxTokens int      `toml:"max_tokens" validate:"gte=1"`
	Timeout   Duration `toml:"timeout"`
	APIKey    string   `toml:"api_key"`
}

// Cache holds the cache backend settings.
type Cache struct {
	Backend       string   `toml:"backend" validate:"oneof=none file redis mongo"`
	Dir           string   `toml:"dir"`
	RedisURL      string   `toml:"redis_url" validate:"required_if=Backend redis"`
	MongoURI      string   `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase string   `toml:"mongo_database"`
	TTL           Duration `toml:"ttl"`
	// KeyPrefix namespaces keys when several deployments share a backend.
	KeyPrefix string `toml:"key_prefix"`
}

// Server holds the HTTP server settings.
type Server struct {
	Addr         string   `toml:"addr" validate:"required"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			Direction:  string(layout.DefaultDirection),
			NodeWidth:  layout.DefaultNodeWidth,
			NodeHeight: layout.DefaultNodeHeight,
			NodeSep:    layout.DefaultNodeSep,
			RankSep:    layout.DefaultRankSep,
			RootLabel:  tree.DefaultRootLabel,
		},
		Fix: Fix{
			Endpoint:  fix.DefaultEndpoint,
			Model:     fix.DefaultModel,
			MaxTokens: fix.DefaultMaxTokens,
			Timeout:   Duration{fix.DefaultTimeout},
		},
		Cache: Cache{
			Backend:       cache.BackendFile,
			MongoDatabase: cache.DefaultMongoDatabase,
			TTL:           Duration{cache.TTLResult},
		},
		Server: Server{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{2 * time.Minute},
		},
	}
}

// DefaultPath returns the default location of the config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "yamlviz", "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path selects DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			if keys := md.Undecoded(); len(keys) > 0 {
				return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown setting %q", path, keys[0].String())
			}
		case !explicit && stderrors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvFixAPIKey); v != "" {
		c.Fix.APIKey = v
	} else if c.Fix.APIKey == "" {
		c.Fix.APIKey = getenv(EnvAnthropicAPIKey)
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
	if v := getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
}

var validate = validator.New()

// Validate checks every section.
func (c *Config) Validate() error {
	return errors.FromValidation(errors.ErrCodeInvalidConfig, validate.Struct(c))
}

// PipelineOptions returns pipeline options for the layout section.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Direction:  c.Layout.Direction,
		NodeWidth:  c.Layout.NodeWidth,
		NodeHeight: c.Layout.NodeHeight,
		NodeSep:    c.Layout.NodeSep,
		RankSep:    c.Layout.RankSep,
		RootLabel:  c.Layout.RootLabel,
	}
}

// CacheOptions returns options for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisURL:      c.Cache.RedisURL,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
}

// Keyer returns the cache keyer, scoped by KeyPrefix when it is set.
func (c *Config) Keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if c.Cache.KeyPrefix == "" {
		return k
	}
	return cache.NewScopedKeyer(k, c.Cache.KeyPrefix)
}

// RemoteOptions returns options for fix.NewRemote.
func (c *Config) RemoteOptions() fix.RemoteOptions {
	return fix.RemoteOptions{
		Endpoint:  c.Fix.Endpoint,
		APIKey:    c.Fix.APIKey,
		Model:     c.Fix.Model,
		MaxTokens: c.Fix.MaxTokens,
		Timeout:   c.Fix.Timeout.Duration,
	}
}
