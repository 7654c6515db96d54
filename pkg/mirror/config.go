package mirror

import (
	"fmt"
	"os"
	"time"
)

// Config holds the remote mirror target and sync policy.
// Missing owner, repo, or token is not a validation error: the mirror
// degrades to a Disabled remote that reports what is missing.
type Config struct {
	Owner          string `toml:"owner"`
	Repo           string `toml:"repo"`
	Path           string `toml:"path"`
	Branch         string `toml:"branch"`
	Token          string `toml:"token"`
	BaseURL        string `toml:"base_url"`
	Message        string `toml:"message"`
	Timeout        string `toml:"timeout"`
	ConflictPolicy string `toml:"conflict_policy"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Owner          string
	Repo           string
	Path           string
	Branch         string
	Token          string
	BaseURL        string
	Message        string
	Timeout        string
	ConflictPolicy string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Policy returns the configured conflict policy.
func (c *Config) Policy() ConflictPolicy {
	return ConflictPolicy(c.ConflictPolicy)
}

// Missing lists the credentials and identifiers required to reach the remote
// that are not set.
func (c *Config) Missing() []string {
	var missing []string
	if c.Owner == "" {
		missing = append(missing, "owner")
	}
	if c.Repo == "" {
		missing = append(missing, "repo")
	}
	if c.Token == "" {
		missing = append(missing, "token")
	}
	return missing
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
	if overlay.Owner != "" {
		c.Owner = overlay.Owner
	}
	if overlay.Repo != "" {
		c.Repo = overlay.Repo
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Branch != "" {
		c.Branch = overlay.Branch
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Message != "" {
		c.Message = overlay.Message
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.ConflictPolicy != "" {
		c.ConflictPolicy = overlay.ConflictPolicy
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "gost_data.json"
	}
	if c.Message == "" {
		c.Message = "Update GOST catalog"
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if c.ConflictPolicy == "" {
		c.ConflictPolicy = string(PolicyDrop)
	}
}

func (c *Config) loadEnv(env *Env) {
	overrides := []struct {
		name  string
		field *string
	}{
		{env.Owner, &c.Owner},
		{env.Repo, &c.Repo},
		{env.Path, &c.Path},
		{env.Branch, &c.Branch},
		{env.Token, &c.Token},
		{env.BaseURL, &c.BaseURL},
		{env.Message, &c.Message},
		{env.Timeout, &c.Timeout},
		{env.ConflictPolicy, &c.ConflictPolicy},
	}

	for _, o := range overrides {
		if o.name == "" {
			continue
		}
		if v := os.Getenv(o.name); v != "" {
			*o.field = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	switch c.Policy() {
	case PolicyDrop, PolicyRetry:
	default:
		return fmt.Errorf("unsupported conflict_policy %q", c.ConflictPolicy)
	}
	return nil
}
