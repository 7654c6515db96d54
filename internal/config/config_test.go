package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/pkg/formatting"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/storage"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "30s"
write_timeout = "1m"

[store]
backend = "file"
path = "data/gost_data.json"

[reference]
table = "data/tnved_data.json"
regulation = "data/regulation.json"

[mirror]
owner = "gost-org"
repo = "catalog"
branch = "main"
conflict_policy = "retry"

[assistant]
model = "gpt-4o"

[storage]
provider = "s3"
container_name = "gost-images"
region = "eu-central-1"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[mirror]
branch = "staging"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Path != "data/gost_data.json" || cfg.Store.UsesDatabase() {
		t.Errorf("store: got %+v", cfg.Store)
	}
	if cfg.Reference.Regulation != "data/regulation.json" {
		t.Errorf("regulation: got %s", cfg.Reference.Regulation)
	}
	if cfg.Mirror.Policy() != mirror.PolicyRetry || cfg.Mirror.Path != "gost_data.json" {
		t.Errorf("mirror: got %+v", cfg.Mirror)
	}
	if missing := cfg.Mirror.Missing(); len(missing) != 1 || missing[0] != "token" {
		t.Errorf("mirror missing: got %v, want [token]", missing)
	}
	if cfg.Assistant.Model != "gpt-4o" || cfg.Assistant.Token != "" {
		t.Errorf("assistant: got %+v", cfg.Assistant)
	}
	if storage.Provider(cfg.Storage.Provider) != storage.ProviderS3 || cfg.Storage.Region != "eu-central-1" {
		t.Errorf("storage: got %+v", cfg.Storage)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 || cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination: got %+v", cfg.API.Pagination)
	}
	if cfg.API.ImageBase() != "/api/images" {
		t.Errorf("image base: got %s", cfg.API.ImageBase())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("GOSTCAT_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Mirror.Branch != "staging" {
		t.Errorf("mirror branch: got %s, want staging (from overlay)", cfg.Mirror.Branch)
	}
	if cfg.Mirror.Owner != "gost-org" {
		t.Errorf("mirror owner: got %s, want gost-org (from base)", cfg.Mirror.Owner)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("GOSTCAT_VERSION", "2.0.0")
	t.Setenv("GOSTCAT_SERVER_PORT", "3000")
	t.Setenv("GOSTCAT_MIRROR_TOKEN", "ghp_test")
	t.Setenv("GOSTCAT_ASSISTANT_TOKEN", "sk-test")
	t.Setenv("GOSTCAT_STORE_PATH", "/var/lib/gostcat/gost_data.json")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if len(cfg.Mirror.Missing()) != 0 {
		t.Errorf("mirror missing: got %v, want none", cfg.Mirror.Missing())
	}
	if cfg.Assistant.Token != "sk-test" {
		t.Errorf("assistant token: got %q", cfg.Assistant.Token)
	}
	if cfg.Store.Path != "/var/lib/gostcat/gost_data.json" {
		t.Errorf("store path: got %s", cfg.Store.Path)
	}
}

func TestPortFallback(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("PORT", "7000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("server port: got %d, want 7000 from PORT", cfg.Server.Port)
	}

	t.Setenv("GOSTCAT_SERVER_PORT", "7100")
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("server port: got %d, want 7100 from GOSTCAT_SERVER_PORT", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("server port default: got %d, want 5000", cfg.Server.Port)
	}
	if cfg.Store.Backend != config.StoreBackendFile || cfg.Store.Path != "gost_data.json" {
		t.Errorf("store defaults: got %+v", cfg.Store)
	}
	if cfg.Reference.Table != "tnved_data.json" || cfg.Reference.Regulation != "regulation.json" {
		t.Errorf("reference defaults: got %+v", cfg.Reference)
	}
	if storage.Provider(cfg.Storage.Provider) != storage.ProviderNone {
		t.Errorf("storage provider default: got %q, want none", cfg.Storage.Provider)
	}
	if cfg.Mirror.TimeoutDuration() != 5*time.Second {
		t.Errorf("mirror timeout default: got %v", cfg.Mirror.TimeoutDuration())
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max upload default: got %d", got)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv("GOSTCAT_ENV", "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size formatting.Size
		want int64
	}{
		{"5MB", 5 << 20, 5 * 1024 * 1024},
		{"512KB", 512 << 10, 512 * 1024},
		{"unset falls back to 10MB", 0, 10 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{"invalid port", "[server]\nport = 99999\n", "invalid port"},
		{"invalid read_timeout", "[server]\nread_timeout = \"bad\"\n", "invalid read_timeout"},
		{"invalid shutdown_timeout", "shutdown_timeout = \"bad\"\n", "invalid shutdown_timeout"},
		{"unknown store backend", "[store]\nbackend = \"sqlite\"\n", "unsupported backend"},
		{"unknown conflict policy", "[mirror]\nconflict_policy = \"merge\"\n", "conflict_policy"},
		{"bad mirror timeout", "[mirror]\ntimeout = \"0s\"\n", "timeout"},
		{"unknown storage provider", "[storage]\nprovider = \"gcs\"\n", "storage"},
		{"relative base path", "[api]\nbase_path = \"api\"\n", "base_path"},
		{"nested base path", "[api]\nbase_path = \"/v1/api\"\n", "base_path"},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"\n", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaxUploadSizeEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("GOSTCAT_API_MAX_UPLOAD_SIZE", "2MB")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 2<<20 {
		t.Errorf("max upload: got %d, want %d", got, 2<<20)
	}

	t.Setenv("GOSTCAT_API_MAX_UPLOAD_SIZE", "plenty")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "GOSTCAT_API_MAX_UPLOAD_SIZE") {
		t.Errorf("expected env parse error, got %v", err)
	}
}

func TestDatabaseValidatedOnlyForPostgres(t *testing.T) {
	bad := "[database]\nconn_timeout = \"soon\"\n"

	t.Run("file backend", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "config.toml", bad)
		chdir(t, dir)

		if _, err := config.Load(); err != nil {
			t.Errorf("file backend should ignore database errors: %v", err)
		}
	})

	t.Run("postgres backend", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "config.toml", "[store]\nbackend = \"postgres\"\n"+bad)
		chdir(t, dir)

		_, err := config.Load()
		if err == nil || !strings.Contains(err.Error(), "database") {
			t.Errorf("expected database error, got %v", err)
		}
	})
}
