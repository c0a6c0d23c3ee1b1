// Package config loads the demo configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the runtime configuration. Every field has a default; a
// config file only needs the keys it wants to change.
type Config struct {
	Addr         string  `yaml:"addr"`
	CameraID     int     `yaml:"camera"`
	FrameWidth   int     `yaml:"width"`
	FrameHeight  int     `yaml:"height"`
	IdleFPS      int     `yaml:"idle_fps"`
	ActiveFPS    int     `yaml:"active_fps"`
	MotionThresh float64 `yaml:"motion_threshold"`

	// NoseOffset is the raised-hands tolerance in normalized units.
	NoseOffset float64 `yaml:"nose_offset"`

	// ResetOnLost clears the celebration when the subject leaves the frame.
	ResetOnLost bool `yaml:"reset_on_lost"`

	// PreferGPU asks the pose model for hardware acceleration; it falls
	// back to CPU silently when unavailable.
	PreferGPU bool `yaml:"prefer_gpu"`

	StaticDir string `yaml:"static_dir"`
	Tray      bool   `yaml:"tray"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:         ":8080",
		CameraID:     0,
		FrameWidth:   640,
		FrameHeight:  480,
		IdleFPS:      5,
		ActiveFPS:    15,
		MotionThresh: 1.0,
		NoseOffset:   0.1,
		PreferGPU:    true,
		StaticDir:    "web",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
