package infrastructure_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/internal/infrastructure"
	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/storage"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	t.Setenv("GOSTCAT_STORE_PATH", filepath.Join(dir, "gost_data.json"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestNewDefaults(t *testing.T) {
	cfg := loadConfig(t)

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if infra.Database != nil {
		t.Error("file backend should not open a database")
	}
	if infra.Storage.Provider() != storage.ProviderNone {
		t.Errorf("storage provider = %q, want none", infra.Storage.Provider())
	}
	if info := infra.Assistant.Info(); info.Enabled {
		t.Errorf("assistant = %+v, want disabled without a token", info)
	}

	state := infra.Mirror.State()
	if state.Enabled || state.Reason == "" {
		t.Errorf("mirror state = %+v, want disabled with reason", state)
	}
}

func TestStoreWritesReachMirror(t *testing.T) {
	cfg := loadConfig(t)

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer infra.Lifecycle.Shutdown(time.Second)

	if _, err := infra.Store.Upsert(context.Background(), "GOST 100", records.Fields{Text: "Steel pipe"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if last := infra.Mirror.State().Last; last != nil {
			if last.Status != mirror.StatusSkipped {
				t.Errorf("status = %s, want skipped for an unconfigured mirror", last.Status)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("mirror never received the committed document")
}

func TestStartAndShutdown(t *testing.T) {
	cfg := loadConfig(t)

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle not ready after startup")
	}
	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
