package mirror_test

import (
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/gostcat/pkg/mirror"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &mirror.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.Path != "gost_data.json" {
		t.Errorf("Path = %q, want %q", cfg.Path, "gost_data.json")
	}
	if cfg.TimeoutDuration() != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.TimeoutDuration())
	}
	if cfg.Policy() != mirror.PolicyDrop {
		t.Errorf("Policy = %q, want %q", cfg.Policy(), mirror.PolicyDrop)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_MIRROR_TOKEN", "secret")
	t.Setenv("TEST_MIRROR_POLICY", "retry")

	cfg := &mirror.Config{Token: "from-file"}
	env := &mirror.Env{Token: "TEST_MIRROR_TOKEN", ConflictPolicy: "TEST_MIRROR_POLICY"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.Token != "secret" {
		t.Errorf("Token = %q, want %q", cfg.Token, "secret")
	}
	if cfg.Policy() != mirror.PolicyRetry {
		t.Errorf("Policy = %q, want %q", cfg.Policy(), mirror.PolicyRetry)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  mirror.Config
	}{
		{"unknown policy", mirror.Config{ConflictPolicy: "merge"}},
		{"bad timeout", mirror.Config{Timeout: "soon"}},
		{"negative timeout", mirror.Config{Timeout: "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := &mirror.Config{Owner: "a", Repo: "catalog", Timeout: "5s"}
	base.Merge(&mirror.Config{Owner: "b", Branch: "main"})

	if base.Owner != "b" || base.Repo != "catalog" || base.Branch != "main" || base.Timeout != "5s" {
		t.Errorf("unexpected merge result %+v", base)
	}
}

func TestMissingSelectsDisabledRemote(t *testing.T) {
	cfg := &mirror.Config{Owner: "acme"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if got := cfg.Missing(); !slices.Equal(got, []string{"repo", "token"}) {
		t.Errorf("Missing = %v, want [repo token]", got)
	}

	remote, err := mirror.NewRemote(cfg, nil)
	if err != nil {
		t.Fatalf("NewRemote failed: %v", err)
	}
	d, ok := remote.(mirror.Disabled)
	if !ok {
		t.Fatalf("remote = %T, want mirror.Disabled", remote)
	}
	if d.Reason != "missing repo, token" {
		t.Errorf("Reason = %q", d.Reason)
	}
}
