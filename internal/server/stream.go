package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/handsup/internal/session"
)

// streamInterval paces the MJPEG stream at roughly 15 FPS.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the session's annotated frames as an MJPEG stream.
type StreamHandler struct {
	session *session.Session
}

// NewStreamHandler creates a new StreamHandler for the given session.
func NewStreamHandler(sess *session.Session) *StreamHandler {
	return &StreamHandler{session: sess}
}

// ServeHTTP streams MJPEG frames to the connected client. Frames come from
// the session's render loop, never from the camera directly, so the overlay
// and mirroring are already applied.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		data := h.session.Frame()
		if data == nil {
			// Nothing published yet (still initializing, or failed).
			time.Sleep(100 * time.Millisecond)
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(streamInterval)
	}
}
