// Package config loads the service configuration: config.toml, an optional
// config.<GOSTCAT_ENV>.toml overlay, then GOSTCAT_* environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/gostcat/internal/assistant"
	"github.com/JaimeStill/gostcat/pkg/database"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvGostcatEnv             = "GOSTCAT_ENV"
	EnvGostcatShutdownTimeout = "GOSTCAT_SHUTDOWN_TIMEOUT"
	EnvGostcatVersion         = "GOSTCAT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "GOSTCAT_DB_HOST",
	Port:            "GOSTCAT_DB_PORT",
	Name:            "GOSTCAT_DB_NAME",
	User:            "GOSTCAT_DB_USER",
	Password:        "GOSTCAT_DB_PASSWORD",
	SSLMode:         "GOSTCAT_DB_SSL_MODE",
	MaxOpenConns:    "GOSTCAT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "GOSTCAT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "GOSTCAT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "GOSTCAT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "GOSTCAT_STORAGE_PROVIDER",
	ContainerName:    "GOSTCAT_STORAGE_CONTAINER_NAME",
	ConnectionString: "GOSTCAT_STORAGE_CONNECTION_STRING",
	AccountURL:       "GOSTCAT_STORAGE_ACCOUNT_URL",
	Region:           "GOSTCAT_STORAGE_REGION",
	Endpoint:         "GOSTCAT_STORAGE_ENDPOINT",
	AccessKeyID:      "GOSTCAT_STORAGE_ACCESS_KEY_ID",
	SecretAccessKey:  "GOSTCAT_STORAGE_SECRET_ACCESS_KEY",
	PathStyle:        "GOSTCAT_STORAGE_PATH_STYLE",
}

var mirrorEnv = &mirror.Env{
	Owner:          "GOSTCAT_MIRROR_OWNER",
	Repo:           "GOSTCAT_MIRROR_REPO",
	Path:           "GOSTCAT_MIRROR_PATH",
	Branch:         "GOSTCAT_MIRROR_BRANCH",
	Token:          "GOSTCAT_MIRROR_TOKEN",
	BaseURL:        "GOSTCAT_MIRROR_BASE_URL",
	Message:        "GOSTCAT_MIRROR_MESSAGE",
	Timeout:        "GOSTCAT_MIRROR_TIMEOUT",
	ConflictPolicy: "GOSTCAT_MIRROR_CONFLICT_POLICY",
}

var assistantEnv = &assistant.Env{
	Token:             "GOSTCAT_ASSISTANT_TOKEN",
	BaseURL:           "GOSTCAT_ASSISTANT_BASE_URL",
	Model:             "GOSTCAT_ASSISTANT_MODEL",
	Persona:           "GOSTCAT_ASSISTANT_PERSONA",
	Timeout:           "GOSTCAT_ASSISTANT_TIMEOUT",
	RequestsPerMinute: "GOSTCAT_ASSISTANT_REQUESTS_PER_MINUTE",
	Burst:             "GOSTCAT_ASSISTANT_BURST",
}

// Config is the root configuration for the gostcat service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Store           StoreConfig      `toml:"store"`
	Reference       ReferenceConfig  `toml:"reference"`
	Mirror          mirror.Config    `toml:"mirror"`
	Assistant       assistant.Config `toml:"assistant"`
	Storage         storage.Config   `toml:"storage"`
	Database        database.Config  `toml:"database"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the GOSTCAT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvGostcatEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Store.Merge(&overlay.Store)
	c.Reference.Merge(&overlay.Reference)
	c.Mirror.Merge(&overlay.Mirror)
	c.Assistant.Merge(&overlay.Assistant)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
}

// finalize resolves every section. Mirror, assistant, and storage accept
// missing credentials; database errors only matter for the postgres
// store backend.
func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Store.Finalize(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Reference.Finalize(); err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	if err := c.Mirror.Finalize(mirrorEnv); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	if err := c.Assistant.Finalize(assistantEnv); err != nil {
		return fmt.Errorf("assistant: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil && c.Store.UsesDatabase() {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvGostcatShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvGostcatVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvGostcatEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
