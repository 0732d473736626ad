// Package web serves the interactive browser viewer: an HTML page with a
// canvas and a websocket carrying frames to it and selections back.
package web

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
	"github.com/marben/mandelzoom/internal/metrics"
	"github.com/marben/mandelzoom/viewport"
)

//go:embed static
var staticFiles embed.FS

// Options configure every session the server starts.
type Options struct {
	Params  mandel.RasterParams
	Initial mandel.Region
	Palette colormap.Palette

	// MinDragPixels is the smallest drag, on each axis, treated as a selection.
	MinDragPixels int
	MinSpan       float64

	Workers  int
	TileSize int
	// Renderer, if set, replaces the local tile renderer.
	Renderer mandel.Renderer

	// QueueSize bounds the selections waiting while a render is in progress.
	QueueSize int

	// OriginPatterns are passed to websocket.AcceptOptions. Empty means same origin only.
	OriginPatterns []string

	// Remotes, if set, lend their renderers to every session's renders.
	Remotes viewport.RemoteSource

	Logger *slog.Logger
}

type Server struct {
	opts Options
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Palette == nil {
		opts.Palette = colormap.Viridis
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.MinSpan <= 0 {
		opts.MinSpan = mandel.DefaultMinSpan
	}
	return &Server{opts: opts}
}

// Handler serves the page at /, the websocket at /ws, Prometheus metrics at
// /metrics and a liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded at build time
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.websocketHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/", http.FileServerFS(static))
	return mux
}

// websocketHandler upgrades the request and runs a viewer session on it
// until the browser goes away.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.opts.Logger.Warn("websocket accept", "error", err)
		return
	}
	defer c.CloseNow()

	logger := s.opts.Logger.With("remote", r.RemoteAddr)
	opts := s.opts
	opts.Logger = logger

	sess, err := newSession(r.Context(), c, opts)
	if err != nil {
		logger.Error("new session", "error", err)
		c.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()
	logger.Info("session started")

	err = sess.run()
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		logger.Info("session closed")
	default:
		if err != nil && !errors.Is(err, r.Context().Err()) {
			logger.Warn("session ended", "error", err)
		}
	}
	c.Close(websocket.StatusNormalClosure, "")
}
