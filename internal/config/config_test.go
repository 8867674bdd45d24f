package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("unexpected default port: %d", cfg.Port)
	}
	if cfg.RouterProfile != "walking" {
		t.Errorf("unexpected default profile: %s", cfg.RouterProfile)
	}
	if cfg.RouterTimeout() != 20*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.RouterTimeout())
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "port: 9000\npoints_csv: custom/points.csv\nrouter_timeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9000 || cfg.PointsCSV != "custom/points.csv" {
		t.Errorf("yaml overlay not applied: %+v", cfg)
	}
	if cfg.RouterTimeout() != 5*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.RouterTimeout())
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("port: 9000\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("ROUTER_PROFILE", "foot")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("environment must win over yaml, got port %d", cfg.Port)
	}
	if cfg.RouterProfile != "foot" {
		t.Errorf("environment profile not applied: %s", cfg.RouterProfile)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yml"))
	t.Setenv("ROUTER_BASE_URL", "not a url")

	if _, err := Load(); err == nil {
		t.Fatal("expected a validation error for a malformed provider URL")
	}
}
