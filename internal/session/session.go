// Package session owns the capture/render loop and its lifecycle state machine
// for one local viewing session.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handsup/internal/capture"
	"github.com/ayusman/handsup/internal/detector"
	"github.com/ayusman/handsup/internal/gesture"
)

// Phase identifies where the session is in its lifecycle.
type Phase int

const (
	// PhaseInitializing covers camera and model acquisition.
	PhaseInitializing Phase = iota
	// PhaseReady means acquisition succeeded and the loop is running.
	PhaseReady
	// PhaseFailed is terminal: acquisition failed and the loop never starts.
	PhaseFailed
)

// String returns the phase name used in state payloads.
func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// CameraHint is the fixed troubleshooting hint shown alongside
// initialization failures.
const CameraHint = "Check that a webcam is connected, allowed, and not in use by another application, then restart."

// initFailedLabel prefixes every user-facing initialization error.
const initFailedLabel = "initialization failed"

// State is a snapshot of the observable session state.
type State struct {
	Phase   Phase
	Err     string // set only when Phase is PhaseFailed
	Matched bool   // classifier output for the most recently processed frame
}

// Loop timing defaults.
const (
	// IdleFPS is the tick rate while the scene is static.
	IdleFPS = 5
	// ActiveFPS is the tick rate while motion is present.
	ActiveFPS = 15
	// IdleTimeout is how long the scene must stay static before the loop
	// drops back to the idle tick rate.
	IdleTimeout = 2 * time.Second
)

// Config holds configuration options for a session.
type Config struct {
	CameraID    int
	FrameWidth  int
	FrameHeight int
	IdleFPS     int
	ActiveFPS   int

	// MotionThresh is the percentage of changed pixels that counts as motion.
	MotionThresh float64

	// NoseOffset is passed to the raised-hands classifier.
	NoseOffset float64

	// ResetOnLost clears the matched flag when a frame yields no detection.
	// Off by default: the last known gesture persists while the subject is
	// briefly out of frame.
	ResetOnLost bool

	Detector detector.Config
}

// Session orchestrates camera capture, pose detection, overlay rendering and
// gesture classification for one user session.
type Session struct {
	id         string
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.RaisedHands

	mu      sync.RWMutex
	state   State
	frame   []byte // latest annotated frame, JPEG-encoded
	enabled bool
	stopCh  chan struct{}
	loopEnd chan struct{}
	start   time.Time

	teardown sync.Once
}

// New creates a Session in the Initializing phase. Nothing is acquired until
// Start is called.
func New(config Config) *Session {
	if config.IdleFPS <= 0 {
		config.IdleFPS = IdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = ActiveFPS
	}
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // 1% pixel change
	}
	if config.NoseOffset == 0 {
		config.NoseOffset = gesture.DefaultNoseOffset
	}

	return &Session{
		id:         uuid.NewString(),
		config:     config,
		camera:     capture.NewCamera(config.CameraID, config.FrameWidth, config.FrameHeight),
		motion:     capture.NewMotionDetector(config.MotionThresh),
		classifier: &gesture.RaisedHands{NoseOffset: config.NoseOffset},
		state:      State{Phase: PhaseInitializing},
		enabled:    true,
		start:      time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetCamera replaces the camera implementation. Must be called before Start.
func (s *Session) SetCamera(c capture.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}

// SetDetector replaces the pose detector implementation. Must be called
// before Start; when left unset, Start spawns the MediaPipe sidecar.
func (s *Session) SetDetector(d detector.Detector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detector = d
}

// SetEnabled pauses or resumes detection. While paused the mirrored feed
// keeps streaming without skeleton or classification.
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (s *Session) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Frame returns the most recent annotated frame as JPEG bytes, or nil when
// no frame has been published yet. The returned slice is never mutated.
func (s *Session) Frame() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Start acquires the camera and the pose model, then launches the loop.
// Any acquisition failure is terminal: the session transitions to Failed,
// the error is surfaced through State, and the loop is never started.
// Resources acquired before the failure are released by Stop, not here, so
// teardown still runs exactly once per session.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil || s.state.Phase != PhaseInitializing {
		return nil
	}

	if err := s.camera.Open(); err != nil {
		return s.failLocked(fmt.Errorf("open camera: %w", err))
	}

	if s.detector == nil {
		d, err := detector.NewMediaPipeDetector(s.config.Detector)
		if err != nil {
			return s.failLocked(fmt.Errorf("load pose model: %w", err))
		}
		s.detector = d
	}

	s.camera.SetFPS(s.config.IdleFPS)
	s.state = State{Phase: PhaseReady}
	s.stopCh = make(chan struct{})
	s.loopEnd = make(chan struct{})
	go s.runLoop(s.stopCh, s.loopEnd)

	log.Printf("session %s ready (camera %d)", s.id, s.config.CameraID)
	return nil
}

// failLocked records a terminal initialization failure. Callers hold s.mu.
func (s *Session) failLocked(err error) error {
	log.Printf("session %s: %s: %v", s.id, initFailedLabel, err)
	s.state = State{
		Phase: PhaseFailed,
		Err:   fmt.Sprintf("%s: %v", initFailedLabel, err),
	}
	return err
}

// Stop tears the session down: it stops the loop, then releases the camera
// and the model. It runs exactly once no matter how often it is called or
// which phase the session reached, including teardown before initialization
// finished. The loop goroutine is joined before resources are released, so
// no iteration ever runs against a closed camera or detector.
func (s *Session) Stop() {
	s.teardown.Do(func() {
		s.mu.Lock()
		stop := s.stopCh
		end := s.loopEnd
		s.stopCh = nil
		s.mu.Unlock()

		if stop != nil {
			close(stop)
			<-end
		}

		if err := s.camera.Close(); err != nil {
			log.Printf("session %s: close camera: %v", s.id, err)
		}

		s.motion.Close()

		s.mu.RLock()
		d := s.detector
		s.mu.RUnlock()
		if d != nil {
			if err := d.Close(); err != nil {
				log.Printf("session %s: close detector: %v", s.id, err)
			}
		}

		log.Printf("session %s stopped", s.id)
	})
}

// publish stores the classifier outcome and the annotated frame for one
// loop iteration.
func (s *Session) publish(frame []byte, matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame != nil {
		s.frame = frame
	}
	s.state.Matched = matched
}
