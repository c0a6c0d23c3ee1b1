// Package overlay draws pose skeletons and status captions onto video frames.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/handsup/internal/detector"
)

// connections pairs landmark indices to draw bones between, following the
// MediaPipe Pose topology.
var connections = [][2]int{
	// Face
	{detector.Nose, detector.LeftEyeInner},
	{detector.LeftEyeInner, detector.LeftEye},
	{detector.LeftEye, detector.LeftEyeOuter},
	{detector.LeftEyeOuter, detector.LeftEar},
	{detector.Nose, detector.RightEyeInner},
	{detector.RightEyeInner, detector.RightEye},
	{detector.RightEye, detector.RightEyeOuter},
	{detector.RightEyeOuter, detector.RightEar},
	{detector.MouthLeft, detector.MouthRight},
	// Arms
	{detector.LeftShoulder, detector.RightShoulder},
	{detector.LeftShoulder, detector.LeftElbow},
	{detector.LeftElbow, detector.LeftWrist},
	{detector.LeftWrist, detector.LeftPinky},
	{detector.LeftWrist, detector.LeftIndex},
	{detector.LeftWrist, detector.LeftThumb},
	{detector.LeftPinky, detector.LeftIndex},
	{detector.RightShoulder, detector.RightElbow},
	{detector.RightElbow, detector.RightWrist},
	{detector.RightWrist, detector.RightPinky},
	{detector.RightWrist, detector.RightIndex},
	{detector.RightWrist, detector.RightThumb},
	{detector.RightPinky, detector.RightIndex},
	// Torso
	{detector.LeftShoulder, detector.LeftHip},
	{detector.RightShoulder, detector.RightHip},
	{detector.LeftHip, detector.RightHip},
	// Legs
	{detector.LeftHip, detector.LeftKnee},
	{detector.LeftKnee, detector.LeftAnkle},
	{detector.LeftAnkle, detector.LeftHeel},
	{detector.LeftHeel, detector.LeftFootIndex},
	{detector.LeftAnkle, detector.LeftFootIndex},
	{detector.RightHip, detector.RightKnee},
	{detector.RightKnee, detector.RightAnkle},
	{detector.RightAnkle, detector.RightHeel},
	{detector.RightHeel, detector.RightFootIndex},
	{detector.RightAnkle, detector.RightFootIndex},
}

var (
	boneColor   = color.RGBA{R: 0, G: 255, B: 136}
	jointColor  = color.RGBA{R: 255, G: 64, B: 64}
	captionBG   = color.RGBA{R: 0, G: 0, B: 0}
	captionFG   = color.RGBA{R: 235, G: 235, B: 235}
	celebrateFG = color.RGBA{R: 0, G: 215, B: 255}
)

const (
	boneThickness = 2
	jointRadius   = 4
	captionHeight = 42
)

// DrawSkeleton renders bones and joints for the detected subject onto img.
// Landmark coordinates are normalized and scaled to the frame size here.
// Connections with a missing endpoint are skipped, so partial detections
// render whatever the model produced.
func DrawSkeleton(img *gocv.Mat, pose *detector.PoseLandmarks) {
	if img == nil || img.Empty() || pose == nil {
		return
	}

	w, h := img.Cols(), img.Rows()

	for _, conn := range connections {
		a, ok := pose.Landmark(conn[0])
		if !ok {
			continue
		}
		b, ok := pose.Landmark(conn[1])
		if !ok {
			continue
		}
		gocv.Line(img, toPixel(a, w, h), toPixel(b, w, h), boneColor, boneThickness)
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		pt, ok := pose.Landmark(i)
		if !ok {
			continue
		}
		gocv.Circle(img, toPixel(pt, w, h), jointRadius, jointColor, -1)
	}
}

func toPixel(p detector.Point3D, w, h int) image.Point {
	return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
}

// Mirror flips the frame horizontally for a natural mirror view. It is a
// presentation transform only: call it after all landmark drawing, and never
// mirror coordinates before classification.
func Mirror(img *gocv.Mat) {
	if img == nil || img.Empty() {
		return
	}
	gocv.Flip(*img, img, 1)
}

// DrawCaption renders the status banner along the bottom edge. Draw it after
// Mirror so the text reads normally.
func DrawCaption(img *gocv.Mat, text string, celebrate bool) {
	if img == nil || img.Empty() {
		return
	}

	w, h := img.Cols(), img.Rows()

	fg := captionFG
	if celebrate {
		fg = celebrateFG
	}

	gocv.Rectangle(img, image.Rect(0, h-captionHeight, w, h), captionBG, -1)
	gocv.PutText(img, text, image.Pt(14, h-14), gocv.FontHersheySimplex, 0.8, fg, 2)
}
