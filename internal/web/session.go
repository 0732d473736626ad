package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
	"github.com/marben/mandelzoom/internal/metrics"
	"github.com/marben/mandelzoom/viewport"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

type boundsMsg struct {
	Xmin float64 `json:"xmin"`
	Xmax float64 `json:"xmax"`
	Ymin float64 `json:"ymin"`
	Ymax float64 `json:"ymax"`
}

func newBoundsMsg(r mandel.Region) boundsMsg {
	return boundsMsg{Xmin: r.Xmin, Xmax: r.Xmax, Ymin: r.Ymin, Ymax: r.Ymax}
}

// serverMsg is sent to the browser as a text message. A "frame" message is
// always followed by one binary message holding the PNG image.
type serverMsg struct {
	Type    string     `json:"type"` // "frame" | "clear"
	Bounds  *boundsMsg `json:"bounds,omitempty"`
	Width   int        `json:"width,omitempty"`
	Height  int        `json:"height,omitempty"`
	MaxIter int        `json:"maxIter,omitempty"`
}

// clientMsg is received from the browser. Coordinates are raster pixels,
// origin top-left.
type clientMsg struct {
	Type string  `json:"type"` // "select" | "reset"
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

type event struct {
	reset  bool
	p1, p2 mandel.Point
}

// Session is one connected browser. It owns a viewport and acts as its display.
type Session struct {
	conn     *websocket.Conn
	viewport *viewport.Viewport
	palette  colormap.Palette
	minDrag  float64
	logger   *slog.Logger

	// shown is the region of the last frame sent; pointer input refers to it.
	shown  atomic.Pointer[mandel.Region]
	events chan event

	// frame and PNG messages must go out back to back
	writeMu sync.Mutex
	ctx     context.Context
}

var _ mandel.Display = (*Session)(nil)

func newSession(ctx context.Context, conn *websocket.Conn, opts Options) (*Session, error) {
	s := &Session{
		conn:    conn,
		palette: opts.Palette,
		minDrag: float64(opts.MinDragPixels),
		logger:  opts.Logger,
		events:  make(chan event, opts.QueueSize),
		ctx:     ctx,
	}
	initial := opts.Initial
	s.shown.Store(&initial)

	vpOpts := []viewport.Option{
		viewport.WithWorkers(opts.Workers),
		viewport.WithTileSize(opts.TileSize),
		viewport.WithMinSpan(opts.MinSpan),
		viewport.WithLogger(opts.Logger),
	}
	if opts.Renderer != nil {
		vpOpts = append(vpOpts, viewport.WithRenderer(opts.Renderer))
	}
	if opts.Remotes != nil {
		vpOpts = append(vpOpts, viewport.WithRemotes(opts.Remotes))
	}
	vp, err := viewport.New(opts.Params, opts.Initial, s, vpOpts...)
	if err != nil {
		return nil, err
	}
	s.viewport = vp
	return s, nil
}

// ShowRaster sends the frame header followed by the PNG encoded field.
func (s *Session) ShowRaster(field *mandel.EscapeField, bounds mandel.Region) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, colormap.Image(field, s.palette)); err != nil {
		return fmt.Errorf("png.Encode: %w", err)
	}
	b := newBoundsMsg(bounds)
	msg := serverMsg{
		Type:    "frame",
		Bounds:  &b,
		Width:   field.Width,
		Height:  field.Height,
		MaxIter: field.MaxIter,
	}

	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := wsjson.Write(ctx, s.conn, msg); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return fmt.Errorf("write frame image: %w", err)
	}
	s.shown.Store(&bounds)
	return nil
}

func (s *Session) Clear() error {
	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := wsjson.Write(ctx, s.conn, serverMsg{Type: "clear"}); err != nil {
		return fmt.Errorf("write clear: %w", err)
	}
	return nil
}

// run draws the initial view and then serves the connection until it fails or ctx ends.
func (s *Session) run() error {
	if err := s.viewport.Show(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(s.ctx)
	g.Go(func() error { return s.readLoop(ctx) })
	g.Go(func() error { return s.processLoop(ctx) })
	g.Go(func() error { return s.keepAlive(ctx) })
	return g.Wait()
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		var msg clientMsg
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			return err
		}
		switch msg.Type {
		case "select":
			s.handleSelect(msg)
		case "reset":
			s.enqueue(event{reset: true})
		default:
			s.logger.Warn("unknown message", "type", msg.Type)
		}
	}
}

// handleSelect clamps the drag to the raster, drops drags below the minimum
// pixel span and translates the rest into plane points on the frame the user
// was looking at.
func (s *Session) handleSelect(msg clientMsg) {
	p := s.viewport.Params()
	w, h := float64(p.Width), float64(p.Height)
	msg.X1, msg.X2 = clampPixel(msg.X1, w), clampPixel(msg.X2, w)
	msg.Y1, msg.Y2 = clampPixel(msg.Y1, h), clampPixel(msg.Y2, h)

	if !(math.Abs(msg.X2-msg.X1) >= s.minDrag && math.Abs(msg.Y2-msg.Y1) >= s.minDrag) {
		metrics.Selections.WithLabelValues("filtered").Inc()
		s.logger.Debug("drag below minimum span", "dx", msg.X2-msg.X1, "dy", msg.Y2-msg.Y1)
		return
	}
	shown := *s.shown.Load()
	s.enqueue(event{
		p1: colormap.PlaneAtPixel(shown, p.Width, p.Height, msg.X1, msg.Y1),
		p2: colormap.PlaneAtPixel(shown, p.Width, p.Height, msg.X2, msg.Y2),
	})
}

// clampPixel limits v to [0, limit]. NaN becomes 0.
func clampPixel(v, limit float64) float64 {
	if !(v > 0) {
		return 0
	}
	return math.Min(v, limit)
}

// enqueue never blocks the reader: when the queue is full the event is dropped.
func (s *Session) enqueue(ev event) {
	select {
	case s.events <- ev:
	default:
		metrics.Selections.WithLabelValues("dropped").Inc()
		s.logger.Warn("render queue full, event dropped")
	}
}

// processLoop applies events one at a time.
func (s *Session) processLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			var err error
			if ev.reset {
				err = s.viewport.Reset()
			} else {
				_, err = s.viewport.ApplySelection(ev.p1, ev.p2)
			}
			if err != nil && !errors.Is(err, mandel.ErrDegenerateSelection) {
				return err
			}
		}
	}
}

func (s *Session) keepAlive(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.conn.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}
