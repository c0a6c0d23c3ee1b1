package detector

import "gocv.io/x/gocv"

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame captured at the given monotonic timestamp
	// (in milliseconds) and returns the landmarks of the tracked subject, or
	// nil when no subject is detected in the frame.
	Detect(frame *gocv.Mat, timestampMs int64) (*PoseLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MaxPoses is the maximum number of subjects to track (default: 1).
	MaxPoses int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// PreferGPU requests hardware-accelerated inference when available.
	// The model falls back to CPU silently when it is not.
	PreferGPU bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxPoses:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		PreferGPU:       true,
	}
}
