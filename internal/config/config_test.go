package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
tick_rate = "50ms"
lead_character = 3

[screen]
mask_height = 350

[logging]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.TickRate != 50*time.Millisecond {
		t.Errorf("TickRate = %s", cfg.Engine.TickRate)
	}
	if cfg.Engine.LeadCharacter != 3 {
		t.Errorf("LeadCharacter = %d", cfg.Engine.LeadCharacter)
	}
	if cfg.Screen.MaskHeight != 350 {
		t.Errorf("MaskHeight = %d", cfg.Screen.MaskHeight)
	}
	// untouched keys keep their defaults
	if cfg.Screen.Width != 640 || cfg.Movement.MaxPerLocation != 5 {
		t.Errorf("defaults lost: width=%d max=%d", cfg.Screen.Width, cfg.Movement.MaxPerLocation)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadMaskHeight(t *testing.T) {
	path := writeConfig(t, "[screen]\nheight = 200\nmask_height = 300\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "mask_height") {
		t.Fatalf("err = %v, want mask_height error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
