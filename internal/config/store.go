package config

import (
	"fmt"
	"os"
)

// Store backends.
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

const (
	EnvStoreBackend  = "GOSTCAT_STORE_BACKEND"
	EnvStorePath     = "GOSTCAT_STORE_PATH"
	EnvStoreDocument = "GOSTCAT_STORE_DOCUMENT"

	EnvReferenceTable      = "GOSTCAT_REFERENCE_TABLE"
	EnvReferenceRegulation = "GOSTCAT_REFERENCE_REGULATION"
)

// StoreConfig selects where the record document lives. Path is used by
// the file backend, Document names the row for the postgres backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	Document string `toml:"document"`
}

// UsesDatabase reports whether the store needs the database section.
func (c *StoreConfig) UsesDatabase() bool {
	return c.Backend == StoreBackendPostgres
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Document != "" {
		c.Document = overlay.Document
	}
}

func (c *StoreConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = StoreBackendFile
	}
	if c.Path == "" {
		c.Path = "gost_data.json"
	}
	if c.Document == "" {
		c.Document = "gost_data"
	}
}

func (c *StoreConfig) loadEnv() {
	if v := os.Getenv(EnvStoreBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvStoreDocument); v != "" {
		c.Document = v
	}
}

func (c *StoreConfig) validate() error {
	switch c.Backend {
	case StoreBackendFile, StoreBackendPostgres:
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	return nil
}

// ReferenceConfig locates the read-only reference documents.
type ReferenceConfig struct {
	Table      string `toml:"table"`
	Regulation string `toml:"regulation"`
}

// Finalize applies defaults and environment variable overrides.
func (c *ReferenceConfig) Finalize() error {
	if c.Table == "" {
		c.Table = "tnved_data.json"
	}
	if c.Regulation == "" {
		c.Regulation = "regulation.json"
	}
	if v := os.Getenv(EnvReferenceTable); v != "" {
		c.Table = v
	}
	if v := os.Getenv(EnvReferenceRegulation); v != "" {
		c.Regulation = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ReferenceConfig) Merge(overlay *ReferenceConfig) {
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
	if overlay.Regulation != "" {
		c.Regulation = overlay.Regulation
	}
}
