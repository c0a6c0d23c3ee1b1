package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	want := Default()
	if cfg != want {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handsup.yaml")
	body := []byte("addr: \":9090\"\ncamera: 2\nnose_offset: 0.15\nreset_on_lost: true\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	if cfg.NoseOffset != 0.15 {
		t.Errorf("NoseOffset = %f, want 0.15", cfg.NoseOffset)
	}
	if !cfg.ResetOnLost {
		t.Error("ResetOnLost = false, want true")
	}

	// Untouched keys keep their defaults.
	if cfg.FrameWidth != 640 || cfg.FrameHeight != 480 {
		t.Errorf("frame size = %dx%d, want 640x480", cfg.FrameWidth, cfg.FrameHeight)
	}
	if !cfg.PreferGPU {
		t.Error("PreferGPU should default to true when the key is absent")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() on a missing file should return an error")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed YAML should return an error")
	}
}
