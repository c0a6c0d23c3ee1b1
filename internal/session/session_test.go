package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handsup/internal/capture"
	"github.com/ayusman/handsup/internal/detector"
)

func testFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &mat
		t.Cleanup(func() { mat.Close() })
	}
	return frames
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func newTestSession(t *testing.T, cfg Config) (*Session, *capture.MockCamera, *detector.MockDetector) {
	t.Helper()

	s := New(cfg)
	cam := capture.NewMockCamera(testFrames(t, 1), true)
	det := detector.NewMockDetector()
	s.SetCamera(cam)
	s.SetDetector(det)
	t.Cleanup(s.Stop)
	return s, cam, det
}

func TestNew_StartsInitializing(t *testing.T) {
	s := New(Config{})
	defer s.Stop()

	if s.ID() == "" {
		t.Error("session should have an ID")
	}

	st := s.State()
	if st.Phase != PhaseInitializing {
		t.Errorf("Phase = %v, want PhaseInitializing", st.Phase)
	}
	if st.Matched {
		t.Error("new session should not report matched")
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseInitializing, "initializing"},
		{PhaseReady, "ready"},
		{PhaseFailed, "failed"},
		{Phase(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestStart_CameraFailureIsTerminal(t *testing.T) {
	s, cam, det := newTestSession(t, Config{})
	cam.FailOpenWith(errors.New("permission denied"))

	if err := s.Start(); err == nil {
		t.Fatal("Start() should return the acquisition error")
	}

	st := s.State()
	if st.Phase != PhaseFailed {
		t.Fatalf("Phase = %v, want PhaseFailed", st.Phase)
	}
	if !strings.Contains(st.Err, initFailedLabel) {
		t.Errorf("Err = %q, want it prefixed with %q", st.Err, initFailedLabel)
	}
	if !strings.Contains(st.Err, "permission denied") {
		t.Errorf("Err = %q, want the cause included", st.Err)
	}

	// Failed is terminal: the loop must never be scheduled.
	time.Sleep(300 * time.Millisecond)
	if got := det.Calls(); got != 0 {
		t.Errorf("detector invoked %d times after failed init, want 0", got)
	}

	// Failed sessions do not retry.
	if err := s.Start(); err != nil {
		t.Errorf("second Start() on failed session = %v, want nil no-op", err)
	}
	if s.State().Phase != PhaseFailed {
		t.Error("failed session should stay failed")
	}
}

func TestStart_ModelFailureIsTerminal(t *testing.T) {
	s := New(Config{})
	defer s.Stop()

	cam := capture.NewMockCamera(testFrames(t, 1), true)
	s.SetCamera(cam)
	// No detector injected and no sidecar script on the test machine's
	// search path, so model acquisition fails after the camera opened.

	if err := s.Start(); err == nil {
		t.Fatal("Start() should fail when the pose model cannot be loaded")
	}
	if s.State().Phase != PhaseFailed {
		t.Errorf("Phase = %v, want PhaseFailed", s.State().Phase)
	}

	// The camera opened before the failure; Stop must still release it.
	s.Stop()
	if got := cam.CloseCalls(); got != 1 {
		t.Errorf("camera Close called %d times, want 1", got)
	}
}

func TestStop_ReleasesExactlyOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, cam, det := newTestSession(t, Config{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	s.Stop()
	s.Stop()

	if got := cam.CloseCalls(); got != 1 {
		t.Errorf("camera Close called %d times, want 1", got)
	}
	if got := det.Closes(); got != 1 {
		t.Errorf("detector Close called %d times, want 1", got)
	}
}

func TestStop_BeforeStart(t *testing.T) {
	s, cam, det := newTestSession(t, Config{})

	// Teardown may arrive before initialization ever ran.
	s.Stop()

	if got := cam.CloseCalls(); got != 1 {
		t.Errorf("camera Close called %d times, want 1", got)
	}
	if got := det.Closes(); got != 1 {
		t.Errorf("detector Close called %d times, want 1", got)
	}

	// A torn-down session cannot be started afterwards into Ready territory
	// with released resources: Stop already ran, so no second release may
	// happen either.
	s.Stop()
	if got := cam.CloseCalls(); got != 1 {
		t.Errorf("camera Close called %d times after extra Stop, want 1", got)
	}
}

func TestLoop_MatchesRaisedHands(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{})
	pose := detector.HandsRaisedLandmarks()
	det.SetPose(&pose)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.State().Phase != PhaseReady {
		t.Fatalf("Phase = %v, want PhaseReady", s.State().Phase)
	}

	if !waitFor(t, 2*time.Second, func() bool { return s.State().Matched }) {
		t.Fatal("session never reported matched for raised-hands pose")
	}
	if s.Frame() == nil {
		t.Error("no annotated frame was published")
	}
}

func TestLoop_LoweredHandsDoNotMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{})
	pose := detector.HandsDownLandmarks()
	det.SetPose(&pose)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return det.Calls() > 3 }) {
		t.Fatal("loop never processed frames")
	}
	if s.State().Matched {
		t.Error("lowered hands should not match")
	}
}

func TestLoop_LostDetectionKeepsLastMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{})
	pose := detector.HandsRaisedLandmarks()
	det.SetPose(&pose)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return s.State().Matched }) {
		t.Fatal("session never matched")
	}

	// Subject leaves the frame: default policy keeps the last known gesture.
	before := det.Calls()
	det.SetPose(nil)
	if !waitFor(t, 2*time.Second, func() bool { return det.Calls() > before+3 }) {
		t.Fatal("loop stalled after detection was lost")
	}
	if !s.State().Matched {
		t.Error("matched flag should persist across empty detections by default")
	}
}

func TestLoop_ResetOnLostClearsMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{ResetOnLost: true})
	pose := detector.HandsRaisedLandmarks()
	det.SetPose(&pose)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return s.State().Matched }) {
		t.Fatal("session never matched")
	}

	det.SetPose(nil)
	if !waitFor(t, 2*time.Second, func() bool { return !s.State().Matched }) {
		t.Error("matched flag should clear on empty detection with ResetOnLost")
	}
}

func TestLoop_DetectErrorsAreSkipped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{})
	det.SetError(errors.New("transient"))

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return det.Calls() > 3 }) {
		t.Fatal("loop stopped on per-frame detect errors")
	}

	st := s.State()
	if st.Phase != PhaseReady {
		t.Errorf("Phase = %v after per-frame errors, want PhaseReady", st.Phase)
	}
	if st.Err != "" {
		t.Errorf("Err = %q, per-frame errors must not surface", st.Err)
	}
}

func TestLoop_TimestampsIncrease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return det.Calls() > 1 }) {
		t.Fatal("loop never processed frames")
	}
	first := det.LastTimestamp()

	calls := det.Calls()
	if !waitFor(t, 2*time.Second, func() bool { return det.Calls() > calls }) {
		t.Fatal("loop stalled")
	}

	if det.LastTimestamp() <= first {
		t.Errorf("timestamps not increasing: %d then %d", first, det.LastTimestamp())
	}
}

func TestLoop_PausedSkipsDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, det := newTestSession(t, Config{})
	s.SetEnabled(false)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// The feed keeps publishing but the detector stays idle.
	if !waitFor(t, 2*time.Second, func() bool { return s.Frame() != nil }) {
		t.Fatal("paused session published no frames")
	}
	if got := det.Calls(); got != 0 {
		t.Errorf("detector invoked %d times while paused, want 0", got)
	}

	s.SetEnabled(true)
	if !waitFor(t, 2*time.Second, func() bool { return det.Calls() > 0 }) {
		t.Error("detection did not resume")
	}
}

func TestStart_Twice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping loop test")
	}

	s, _, _ := newTestSession(t, Config{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Errorf("second Start() = %v, want nil no-op", err)
	}
}
