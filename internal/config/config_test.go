package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Globe.Size != 1.8 {
		t.Fatalf("globe size = %v, want 1.8", cfg.Globe.Size)
	}
	if cfg.Globe.RotationSpeed != 0.001 {
		t.Fatalf("rotation speed = %v, want 0.001", cfg.Globe.RotationSpeed)
	}
	if !cfg.Globe.AutoRotateEnabled() {
		t.Fatal("auto rotate should default to true")
	}
	if cfg.Globe.SunMode != "realtime" {
		t.Fatalf("sun mode = %q, want realtime", cfg.Globe.SunMode)
	}
	if cfg.Render.Supersample != 3 {
		t.Fatalf("supersample = %v, want 3", cfg.Render.Supersample)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
globe:
  size: 2.5
  day_texture: day.png
  night_texture: night.png
  auto_rotate: false
  sun_mode: manual
  sun_direction: [0, 1, 0]
render:
  size: 128
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Globe.Size != 2.5 {
		t.Fatalf("globe size = %v, want 2.5", cfg.Globe.Size)
	}
	if cfg.Globe.AutoRotateEnabled() {
		t.Fatal("auto_rotate: false not honored")
	}
	if cfg.Globe.SunDirection != [3]float64{0, 1, 0} {
		t.Fatalf("sun direction = %v", cfg.Globe.SunDirection)
	}
	// Untouched values keep their defaults.
	if cfg.Render.Supersample != 3 {
		t.Fatalf("supersample = %v, want default 3", cfg.Render.Supersample)
	}
	if cfg.Render.Size != 128 {
		t.Fatalf("render size = %v, want 128", cfg.Render.Size)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Fatalf("server addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
