package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/gostcat/pkg/formatting"
	"github.com/JaimeStill/gostcat/pkg/middleware"
	"github.com/JaimeStill/gostcat/pkg/openapi"
	"github.com/JaimeStill/gostcat/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "GOSTCAT_CORS_ENABLED",
	Origins:          "GOSTCAT_CORS_ORIGINS",
	AllowedMethods:   "GOSTCAT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "GOSTCAT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "GOSTCAT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "GOSTCAT_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "GOSTCAT_OPENAPI_TITLE",
	Description: "GOSTCAT_OPENAPI_DESCRIPTION",
	Path:        "GOSTCAT_OPENAPI_PATH",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "GOSTCAT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "GOSTCAT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize formatting.Size       `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

const defaultMaxUploadSize formatting.Size = 10 << 20

// MaxUploadSizeBytes returns the image upload limit in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	if c.MaxUploadSize <= 0 {
		return defaultMaxUploadSize.Bytes()
	}
	return c.MaxUploadSize.Bytes()
}

// ImageBase returns the path prefix stored in record image references.
func (c *APIConfig) ImageBase() string {
	return strings.TrimSuffix(c.BasePath, "/") + "/images"
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}

	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 || c.BasePath == "/" {
		return fmt.Errorf("base_path must be a single path segment such as /api: %q", c.BasePath)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != 0 {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = defaultMaxUploadSize
	}
}

func (c *APIConfig) loadEnv() error {
	if v := os.Getenv("GOSTCAT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("GOSTCAT_API_MAX_UPLOAD_SIZE"); v != "" {
		size, err := formatting.ParseSize(v)
		if err != nil {
			return fmt.Errorf("GOSTCAT_API_MAX_UPLOAD_SIZE: %w", err)
		}
		c.MaxUploadSize = size
	}
	return nil
}
