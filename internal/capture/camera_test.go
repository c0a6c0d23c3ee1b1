package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{name: "explicit size", width: 320, height: 240},
		{name: "zero size falls back to defaults", width: 0, height: 0},
		{name: "negative size falls back to defaults", width: -1, height: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(0, tt.width, tt.height)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != DefaultFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
			}

			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0, 0, 0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 5", fps: 5, wantFPS: 5},
		{name: "set to 30", fps: 30, wantFPS: 30},
		{name: "zero ignored", fps: 0, wantFPS: 30},
		{name: "negative ignored", fps: -10, wantFPS: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_ReadFrameNotOpen(t *testing.T) {
	cam := NewCamera(0, 0, 0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_CloseWithoutOpen(t *testing.T) {
	cam := NewCamera(0, 0, 0)

	// Teardown may run before the camera was ever acquired.
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera error = %v, want nil", err)
	}
}
