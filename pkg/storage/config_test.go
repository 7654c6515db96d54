package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/gostcat/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "gost-images" {
		t.Errorf("container_name: got %s, want gost-images", cfg.ContainerName)
	}
	if cfg.Region != "us-east-1" {
		t.Errorf("region: got %s, want us-east-1", cfg.Region)
	}
	if storage.Provider(cfg.Provider) != storage.ProviderNone {
		t.Errorf("provider: got %q, want none", cfg.Provider)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "s3")
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_PATH_STYLE", "true")

	env := &storage.Env{
		Provider:      "TEST_PROVIDER",
		ContainerName: "TEST_CONTAINER",
		PathStyle:     "TEST_PATH_STYLE",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != "s3" {
		t.Errorf("provider: got %s, want s3", cfg.Provider)
	}
	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if !cfg.PathStyle {
		t.Error("path_style: expected true")
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure without credentials",
			cfg:     storage.Config{Provider: "azure"},
			wantErr: "connection_string or account_url required",
		},
		{
			name: "azure with account url",
			cfg:  storage.Config{Provider: "azure", AccountURL: "https://acct.blob.core.windows.net"},
		},
		{
			name:    "s3 with half a key pair",
			cfg:     storage.Config{Provider: "s3", AccessKeyID: "AKIA"},
			wantErr: "must be set together",
		},
		{
			name: "s3 with default credential chain",
			cfg:  storage.Config{Provider: "s3"},
		},
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "ftp"},
			wantErr: "unsupported provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider:         "azure",
		ContainerName:    "images",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn", PathStyle: true}
	base.Merge(&overlay)

	if base.ContainerName != "images" {
		t.Errorf("container_name should remain images, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
	if !base.PathStyle {
		t.Error("path_style: expected true after merge")
	}
}
