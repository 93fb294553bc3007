// Package web serves the yolodoro status page. The timer never depends on it:
// handlers only read status.Tracker snapshots.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/yolodoro/internal/status"
)

const readHeaderTimeout = 5 * time.Second

// Server exposes the tracker as HTML, JSON and a one-line text summary.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server for addr. Nothing listens until ListenAndServe or Serve.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.Handle("/", readOnly(s.handleIndex))
	mux.Handle("/index.json", readOnly(s.handleJSON))
	mux.Handle("/index.txt", readOnly(s.handleText))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler returns the routing handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until Shutdown is called.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// readOnly rejects anything but GET and HEAD. Every response reflects a
// ticking timer, so caching is disabled.
func readOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		h(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.tracker.Snapshot())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}

// handleText writes a single line suited to shell prompts and status bars,
// e.g. "WORKING 12:34 cycle=2".
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, formatLine(s.tracker.Snapshot()))
}

func formatLine(snap status.Snapshot) string {
	phase := status.PhaseOrIdle(snap.Phase)
	if !snap.Started() {
		return phase
	}
	rem := snap.Remaining().Truncate(time.Second)
	mins := int(rem / time.Minute)
	secs := int(rem%time.Minute) / int(time.Second)
	return fmt.Sprintf("%s %d:%02d cycle=%d", phase, mins, secs, snap.Cycle)
}
