// Package server provides the HTTP surface for the handsup demo: session
// state, the annotated MJPEG stream, and a WebSocket event feed.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/handsup/internal/session"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Session   *session.Session
}

// Server represents the HTTP server for the handsup demo.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Session != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Session))
		s.mux.Handle("/api/events", NewEventsHandler(s.config.Session))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleState handles GET requests to /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stateOf(s.config.Session)); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// stateResponse is the session state as exposed to the browser shell.
type stateResponse struct {
	Session string `json:"session"`
	Phase   string `json:"phase"`
	Matched bool   `json:"matched"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// stateOf snapshots the session into the wire shape. The fixed
// troubleshooting hint accompanies every failure.
func stateOf(sess *session.Session) stateResponse {
	st := sess.State()
	resp := stateResponse{
		Session: sess.ID(),
		Phase:   st.Phase.String(),
		Matched: st.Matched,
	}
	if st.Phase == session.PhaseFailed {
		resp.Error = st.Err
		resp.Hint = session.CameraHint
	}
	return resp
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
