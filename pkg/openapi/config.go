package openapi

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the document metadata and the route the document is served on.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Path        string `toml:"path"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	Path        string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %q", c.Path)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "GOST Catalog API"
	}
	if c.Description == "" {
		c.Description = "Catalog of GOST standards with TN VED reference search and technical regulation checks."
	}
	if c.Path == "" {
		c.Path = "/openapi.json"
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for field, name := range map[*string]string{
		&c.Title:       env.Title,
		&c.Description: env.Description,
		&c.Path:        env.Path,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}
