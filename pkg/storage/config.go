package storage

import (
	"fmt"
	"os"
	"strconv"
)

// Provider names the blob backend.
type Provider string

const (
	ProviderNone  Provider = ""
	ProviderAzure Provider = "azure"
	ProviderS3    Provider = "s3"
)

// Config holds blob storage connection parameters. ContainerName is the Azure
// container or the S3 bucket.
type Config struct {
	Provider         string `toml:"provider"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	Region           string `toml:"region"`
	Endpoint         string `toml:"endpoint"`
	AccessKeyID      string `toml:"access_key_id"`
	SecretAccessKey  string `toml:"secret_access_key"`
	PathStyle        bool   `toml:"path_style"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	ContainerName    string
	ConnectionString string
	AccountURL       string
	Region           string
	Endpoint         string
	AccessKeyID      string
	SecretAccessKey  string
	PathStyle        string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
	if overlay.PathStyle {
		c.PathStyle = true
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "gost-images"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	overrides := []struct {
		name  string
		field *string
	}{
		{env.Provider, &c.Provider},
		{env.ContainerName, &c.ContainerName},
		{env.ConnectionString, &c.ConnectionString},
		{env.AccountURL, &c.AccountURL},
		{env.Region, &c.Region},
		{env.Endpoint, &c.Endpoint},
		{env.AccessKeyID, &c.AccessKeyID},
		{env.SecretAccessKey, &c.SecretAccessKey},
	}
	for _, o := range overrides {
		if o.name == "" {
			continue
		}
		if v := os.Getenv(o.name); v != "" {
			*o.field = v
		}
	}

	if env.PathStyle != "" {
		if v := os.Getenv(env.PathStyle); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.PathStyle = b
			}
		}
	}
}

func (c *Config) validate() error {
	switch Provider(c.Provider) {
	case ProviderNone:
		return nil
	case ProviderAzure:
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required for azure provider")
		}
	case ProviderS3:
		if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
			return fmt.Errorf("access_key_id and secret_access_key must be set together")
		}
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}

	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	return nil
}
