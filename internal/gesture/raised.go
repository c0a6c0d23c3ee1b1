// Package gesture provides pose classification for the raised-hands celebration.
package gesture

import "github.com/ayusman/handsup/internal/detector"

// DefaultNoseOffset is the tolerance, in normalized coordinate units, by which
// a wrist may sit below the nose and still count as raised. A design constant,
// not derived from anatomy.
const DefaultNoseOffset = 0.1

// RaisedHands classifies whether both hands are raised above the head.
type RaisedHands struct {
	// NoseOffset is the vertical tolerance added below the nose.
	NoseOffset float64
}

// NewRaisedHands creates a classifier with the default nose offset.
func NewRaisedHands() *RaisedHands {
	return &RaisedHands{NoseOffset: DefaultNoseOffset}
}

// Match reports whether both wrists sit strictly above their shoulders and
// strictly above the nose plus the offset. A pose missing any required
// landmark yields false: partial and low-confidence detections are expected
// input, not errors. Match is pure and keeps no state between calls.
func (c *RaisedHands) Match(pose *detector.PoseLandmarks) bool {
	nose, ok := pose.Landmark(detector.Nose)
	if !ok {
		return false
	}
	leftShoulder, ok := pose.Landmark(detector.LeftShoulder)
	if !ok {
		return false
	}
	rightShoulder, ok := pose.Landmark(detector.RightShoulder)
	if !ok {
		return false
	}
	leftWrist, ok := pose.Landmark(detector.LeftWrist)
	if !ok {
		return false
	}
	rightWrist, ok := pose.Landmark(detector.RightWrist)
	if !ok {
		return false
	}

	// Y grows downward, so "above" means a smaller Y.
	leftRaised := leftWrist.Y < leftShoulder.Y && leftWrist.Y < nose.Y+c.NoseOffset
	rightRaised := rightWrist.Y < rightShoulder.Y && rightWrist.Y < nose.Y+c.NoseOffset

	return leftRaised && rightRaised
}
