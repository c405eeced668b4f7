// Package web serves the dryer's status page: a plain HTML view and a JSON
// snapshot of the same tracker state.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/ml8/attiny85-skate-dryer/internal/status"
)

// Server serves the status page over HTTP. It does not bind a listener
// itself; the daemon opens the listener so a bad address can raise the LED
// alarm before serving starts.
type Server struct {
	tracker *status.Tracker
	srv     *http.Server
}

// New creates a Server reading state from tracker.
func New(tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.index)
	mux.HandleFunc("/index.html", s.index)
	mux.HandleFunc("/index.json", s.indexJSON)
	s.srv = &http.Server{Handler: mux}
	return s
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.tracker.Snapshot())
}

func (s *Server) indexJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}
