// Package detector provides pose detection interfaces and types for skeleton tracking.
package detector

// Body landmark indices following MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Point3D represents a 3D point with normalized x, y, z coordinates.
// X and Y are relative to the frame dimensions with the origin at the top left;
// Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PoseLandmarks represents the body keypoints for one detected subject in one frame.
// Points is indexed by the anatomical constants above. Valid marks which indices the
// model actually produced: a low-confidence detection may fill only part of the
// schema, so callers must check presence before using an index.
type PoseLandmarks struct {
	Points [NumLandmarks]Point3D `json:"points"`
	Valid  [NumLandmarks]bool    `json:"valid"`
	Score  float64               `json:"score"`
}

// Landmark returns the point at index i and whether the model produced it.
// Out-of-range indices and nil receivers report absent.
func (p *PoseLandmarks) Landmark(i int) (Point3D, bool) {
	if p == nil || i < 0 || i >= NumLandmarks || !p.Valid[i] {
		return Point3D{}, false
	}
	return p.Points[i], true
}

// SetLandmark stores a point at index i and marks it present.
// Out-of-range indices are ignored.
func (p *PoseLandmarks) SetLandmark(i int, pt Point3D) {
	if i < 0 || i >= NumLandmarks {
		return
	}
	p.Points[i] = pt
	p.Valid[i] = true
}
