// Package web provides an HTTP status server for the r-node daemon.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/partheniadis/r-node-nRF/internal/samples"
	"github.com/partheniadis/r-node-nRF/internal/status"
)

// DefaultWindow is the number of samples per channel drawn by /chart.png
// and returned by /samples.json unless ?last= is given.
const DefaultWindow = 60

// Server serves the status page, status JSON and the live chart over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	buffer     *samples.Buffer
	reset      func()
	logger     *zap.Logger
}

// New creates a Server that reads state from the given tracker and chart
// buffer. reset is called for POST /reset; if nil the endpoint is disabled.
func New(addr string, tracker *status.Tracker, buf *samples.Buffer, reset func(), logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{tracker: tracker, buffer: buf, reset: reset, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/samples.json", s.handleSamples)
	mux.HandleFunc("/chart.png", s.handleChart)
	mux.HandleFunc("/reset", s.handleReset)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderHTML(w, snap, s.reset != nil); err != nil {
		s.logger.Warn("[web] render index", zap.Error(err))
	}
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	n, ok := windowParam(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatSamples(s.buffer.LastN(n)))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	n, ok := windowParam(w, r)
	if !ok {
		return
	}
	png, err := RenderChart(s.buffer.LastN(n), ChartWidth, ChartHeight)
	if err != nil {
		if errors.Is(err, ErrNotEnoughPoints) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Warn("[web] render chart", zap.Error(err))
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if s.reset == nil {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.logger.Info("[web] reset requested", zap.String("remote", r.RemoteAddr))
	s.reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func windowParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("last")
	if v == "" {
		return DefaultWindow, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		http.Error(w, "last must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
