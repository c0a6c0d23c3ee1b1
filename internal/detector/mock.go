package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results and observe calls.
type MockDetector struct {
	mu     sync.Mutex
	pose   *PoseLandmarks
	err    error
	calls  int
	closes int
	lastTS int64
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect. A nil pose simulates
// a frame with no detected subject.
func (m *MockDetector) SetPose(pose *PoseLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pose = pose
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastTimestamp returns the timestamp passed to the most recent Detect call.
func (m *MockDetector) LastTimestamp() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTS
}

// Detect returns the pre-configured pose or error.
func (m *MockDetector) Detect(frame *gocv.Mat, timestampMs int64) (*PoseLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastTS = timestampMs
	if m.err != nil {
		return nil, m.err
	}
	return m.pose, nil
}

// Close records the release; the mock holds no real resources.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// Closes returns how many times Close has been invoked.
func (m *MockDetector) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// HandsRaisedLandmarks returns a preset PoseLandmarks for a subject with both
// wrists above the shoulders and above the head.
func HandsRaisedLandmarks() PoseLandmarks {
	pose := PoseLandmarks{Score: 0.95}

	// Head
	pose.SetLandmark(Nose, Point3D{X: 0.50, Y: 0.30, Z: 0.0})
	pose.SetLandmark(LeftEyeInner, Point3D{X: 0.52, Y: 0.28, Z: -0.01})
	pose.SetLandmark(LeftEye, Point3D{X: 0.53, Y: 0.28, Z: -0.01})
	pose.SetLandmark(LeftEyeOuter, Point3D{X: 0.54, Y: 0.28, Z: -0.01})
	pose.SetLandmark(RightEyeInner, Point3D{X: 0.48, Y: 0.28, Z: -0.01})
	pose.SetLandmark(RightEye, Point3D{X: 0.47, Y: 0.28, Z: -0.01})
	pose.SetLandmark(RightEyeOuter, Point3D{X: 0.46, Y: 0.28, Z: -0.01})
	pose.SetLandmark(LeftEar, Point3D{X: 0.56, Y: 0.29, Z: 0.0})
	pose.SetLandmark(RightEar, Point3D{X: 0.44, Y: 0.29, Z: 0.0})
	pose.SetLandmark(MouthLeft, Point3D{X: 0.52, Y: 0.33, Z: 0.0})
	pose.SetLandmark(MouthRight, Point3D{X: 0.48, Y: 0.33, Z: 0.0})

	// Shoulders and arms raised overhead
	pose.SetLandmark(LeftShoulder, Point3D{X: 0.60, Y: 0.55, Z: 0.0})
	pose.SetLandmark(RightShoulder, Point3D{X: 0.40, Y: 0.55, Z: 0.0})
	pose.SetLandmark(LeftElbow, Point3D{X: 0.66, Y: 0.38, Z: -0.02})
	pose.SetLandmark(RightElbow, Point3D{X: 0.34, Y: 0.38, Z: -0.02})
	pose.SetLandmark(LeftWrist, Point3D{X: 0.64, Y: 0.18, Z: -0.05})
	pose.SetLandmark(RightWrist, Point3D{X: 0.36, Y: 0.18, Z: -0.05})
	pose.SetLandmark(LeftPinky, Point3D{X: 0.65, Y: 0.14, Z: -0.05})
	pose.SetLandmark(RightPinky, Point3D{X: 0.35, Y: 0.14, Z: -0.05})
	pose.SetLandmark(LeftIndex, Point3D{X: 0.63, Y: 0.13, Z: -0.05})
	pose.SetLandmark(RightIndex, Point3D{X: 0.37, Y: 0.13, Z: -0.05})
	pose.SetLandmark(LeftThumb, Point3D{X: 0.62, Y: 0.16, Z: -0.04})
	pose.SetLandmark(RightThumb, Point3D{X: 0.38, Y: 0.16, Z: -0.04})

	// Lower body, partially out of frame
	pose.SetLandmark(LeftHip, Point3D{X: 0.57, Y: 0.85, Z: 0.0})
	pose.SetLandmark(RightHip, Point3D{X: 0.43, Y: 0.85, Z: 0.0})
	pose.SetLandmark(LeftKnee, Point3D{X: 0.57, Y: 1.10, Z: 0.0})
	pose.SetLandmark(RightKnee, Point3D{X: 0.43, Y: 1.10, Z: 0.0})
	pose.SetLandmark(LeftAnkle, Point3D{X: 0.57, Y: 1.35, Z: 0.0})
	pose.SetLandmark(RightAnkle, Point3D{X: 0.43, Y: 1.35, Z: 0.0})
	pose.SetLandmark(LeftHeel, Point3D{X: 0.58, Y: 1.38, Z: 0.0})
	pose.SetLandmark(RightHeel, Point3D{X: 0.42, Y: 1.38, Z: 0.0})
	pose.SetLandmark(LeftFootIndex, Point3D{X: 0.59, Y: 1.40, Z: -0.02})
	pose.SetLandmark(RightFootIndex, Point3D{X: 0.41, Y: 1.40, Z: -0.02})

	return pose
}

// HandsDownLandmarks returns a preset PoseLandmarks for a subject standing
// with both arms hanging by the hips.
func HandsDownLandmarks() PoseLandmarks {
	pose := HandsRaisedLandmarks()

	// Lower the arms; everything else matches the raised fixture.
	pose.SetLandmark(LeftElbow, Point3D{X: 0.64, Y: 0.68, Z: 0.0})
	pose.SetLandmark(RightElbow, Point3D{X: 0.36, Y: 0.68, Z: 0.0})
	pose.SetLandmark(LeftWrist, Point3D{X: 0.63, Y: 0.80, Z: 0.0})
	pose.SetLandmark(RightWrist, Point3D{X: 0.37, Y: 0.80, Z: 0.0})
	pose.SetLandmark(LeftPinky, Point3D{X: 0.64, Y: 0.84, Z: 0.0})
	pose.SetLandmark(RightPinky, Point3D{X: 0.36, Y: 0.84, Z: 0.0})
	pose.SetLandmark(LeftIndex, Point3D{X: 0.62, Y: 0.85, Z: 0.0})
	pose.SetLandmark(RightIndex, Point3D{X: 0.38, Y: 0.85, Z: 0.0})
	pose.SetLandmark(LeftThumb, Point3D{X: 0.61, Y: 0.83, Z: 0.0})
	pose.SetLandmark(RightThumb, Point3D{X: 0.39, Y: 0.83, Z: 0.0})

	return pose
}

// HeadAndShouldersLandmarks returns a partial detection that stops at the
// shoulders, as the model produces when the arms leave the frame.
func HeadAndShouldersLandmarks() PoseLandmarks {
	full := HandsRaisedLandmarks()

	pose := PoseLandmarks{Score: 0.6}
	for i := Nose; i <= RightShoulder; i++ {
		pose.SetLandmark(i, full.Points[i])
	}

	return pose
}
