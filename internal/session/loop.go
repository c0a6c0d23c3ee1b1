package session

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handsup/internal/overlay"
)

// Status captions drawn onto the frame.
const (
	captionNeutral = "Raise both hands above your head!"
	captionMatched = "Both hands up - nice!"
	captionPaused  = "Detection paused"
)

// runLoop is the capture/render loop: one iteration per tick, never
// overlapping, since the next tick is only consumed after the current
// iteration (including the synchronous detect call) finishes.
//
// Per iteration:
//  1. Readiness check: skip the tick when the camera has no frame to give.
//  2. Motion check drives idle/active tick-rate switching; it never gates
//     detection on a processed frame.
//  3. Detect with a monotonic millisecond timestamp.
//  4. Draw the skeleton from un-mirrored coordinates, classify, mirror,
//     caption, encode, publish.
//
// A frame with no detection skips the overlay; the matched flag keeps its
// previous value unless ResetOnLost is set.
func (s *Session) runLoop(stop <-chan struct{}, end chan<- struct{}) {
	defer close(end)

	s.mu.RLock()
	d := s.detector
	s.mu.RUnlock()

	interval := time.Second / time.Duration(s.config.IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	activeMode := false
	lastMotion := time.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		// Readiness: no work this tick unless the camera can deliver a frame.
		if !s.camera.IsOpen() {
			continue
		}
		frame, err := s.camera.ReadFrame()
		if err != nil {
			continue
		}

		moved, _ := s.motion.Detect(frame)
		if moved {
			lastMotion = time.Now()
			if !activeMode {
				activeMode = true
				s.camera.SetFPS(s.config.ActiveFPS)
				ticker.Reset(time.Second / time.Duration(s.config.ActiveFPS))
			}
		} else if activeMode && time.Since(lastMotion) > IdleTimeout {
			activeMode = false
			s.camera.SetFPS(s.config.IdleFPS)
			ticker.Reset(time.Second / time.Duration(s.config.IdleFPS))
		}

		if !s.IsEnabled() {
			overlay.Mirror(frame)
			overlay.DrawCaption(frame, captionPaused, false)
			s.publish(encodeFrame(frame), s.State().Matched)
			frame.Close()
			continue
		}

		ts := time.Since(s.start).Milliseconds()
		pose, err := d.Detect(frame, ts)
		if err != nil {
			// Per-frame anomaly: log and skip, never surface to the user.
			log.Printf("session %s: detect: %v", s.id, err)
			frame.Close()
			continue
		}

		matched := s.State().Matched
		if pose != nil {
			overlay.DrawSkeleton(frame, pose)
			matched = s.classifier.Match(pose)
		} else if s.config.ResetOnLost {
			matched = false
		}

		overlay.Mirror(frame)
		caption := captionNeutral
		if matched {
			caption = captionMatched
		}
		overlay.DrawCaption(frame, caption, matched)

		s.publish(encodeFrame(frame), matched)
		frame.Close()
	}
}

// encodeFrame returns the frame as JPEG bytes, or nil when encoding fails.
func encodeFrame(frame *gocv.Mat) []byte {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data
}
