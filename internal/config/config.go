// Package config loads and validates the registry service configuration:
// content sources, strictness, server addresses, link verification, and
// persistence settings.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
)

// Config is the top-level service configuration.
type Config struct {
	// Content lists local content roots to load.
	Content []ContentRoot `yaml:"content,omitempty"`
	// Repositories lists docs repositories to clone and load.
	Repositories []Repository `yaml:"repositories,omitempty"`
	// Strict makes dangling menu parent references a load failure.
	Strict bool `yaml:"strict"`

	Server           ServerConfig            `yaml:"server,omitempty"`
	LinkVerification *LinkVerificationConfig `yaml:"link_verification,omitempty"`
	EventStore       EventStoreConfig        `yaml:"event_store,omitempty"`
	Watch            WatchConfig             `yaml:"watch,omitempty"`
}

// ContentRoot is one local markdown tree.
type ContentRoot struct {
	Path string `yaml:"path"`
	// BasePath is prepended to page paths derived from this root (e.g. "/v2.0").
	BasePath string `yaml:"base_path,omitempty"`
}

// Repository is one remote docs repository.
type Repository struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	// ContentDir is the docs directory inside the repository (default "content").
	ContentDir string `yaml:"content_dir,omitempty"`
	BasePath   string `yaml:"base_path,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr,omitempty"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// LinkVerificationConfig configures scheduled link verification and the
// optional NATS broken-link event stream.
type LinkVerificationConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval,omitempty"`
	NATSURL  string        `yaml:"nats_url,omitempty"`
	Subject  string        `yaml:"subject,omitempty"`
	KVBucket string        `yaml:"kv_bucket,omitempty"`
}

// PublishEnabled reports whether broken-link events should go to NATS.
func (c *LinkVerificationConfig) PublishEnabled() bool {
	return c != nil && c.Enabled && c.NATSURL != ""
}

// EventStoreConfig configures build/verification event persistence.
type EventStoreConfig struct {
	// Path is the sqlite database path; ":memory:" keeps events in process.
	Path string `yaml:"path,omitempty"`
}

// WatchConfig configures content-root watching in serve mode.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Load reads, defaults, and validates a configuration file. Environment
// files (.env, .env.local) are loaded first; existing process variables
// win over file values.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 -- path is the user-provided config flag.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).
			Build()
	}

	cfg.applyDefaults()
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads the first available env file. godotenv never
// overrides variables already present in the process environment.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}

// applyEnvOverrides lets deployment environments override wiring knobs
// without editing the config file.
func applyEnvOverrides(cfg *Config) {
	if addr := os.Getenv("DOCREGISTRY_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if url := os.Getenv("DOCREGISTRY_NATS_URL"); url != "" {
		if cfg.LinkVerification == nil {
			cfg.LinkVerification = &LinkVerificationConfig{Enabled: true}
		}
		cfg.LinkVerification.NATSURL = url
	}
	if dbPath := os.Getenv("DOCREGISTRY_EVENT_STORE"); dbPath != "" {
		cfg.EventStore.Path = dbPath
	}
}
