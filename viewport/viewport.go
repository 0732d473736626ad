// Package viewport owns the current view of the complex plane and drives the
// select, render, redraw cycle against a mandel.Display.
package viewport

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/metrics"
	"github.com/marben/mandelzoom/render"
)

const defaultTileSize = 64

// Viewport holds the current bounds and the fixed raster parameters.
// Render cycles (bounds update, render, redraw) are serialized: a selection is
// fully processed before the next one starts.
type Viewport struct {
	params  mandel.RasterParams
	initial mandel.Region
	bounds  atomic.Pointer[mandel.Region]

	display  mandel.Display
	renderer mandel.Renderer
	workers  int
	remotes  RemoteSource
	tileSize int
	minSpan  float64
	logger   *slog.Logger

	cycle sync.Mutex
}

// RemoteSource lists the remote renderers available right now.
type RemoteSource interface {
	Renderers() []mandel.Renderer
}

type Option func(*Viewport)

// WithRenderer replaces the local tile renderer.
func WithRenderer(r mandel.Renderer) Option {
	return func(v *Viewport) { v.renderer = r }
}

// WithWorkers sets the number of goroutines rendering tiles. Values < 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(v *Viewport) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		v.workers = n
	}
}

// WithTileSize sets the edge length of a square render tile in pixels.
func WithTileSize(n int) Option {
	return func(v *Viewport) {
		if n > 0 {
			v.tileSize = n
		}
	}
}

// WithMinSpan sets the smallest width or height a selected region may have.
func WithMinSpan(span float64) Option {
	return func(v *Viewport) { v.minSpan = span }
}

// WithRemotes adds the renderers of src to every render, next to the local workers.
func WithRemotes(src RemoteSource) Option {
	return func(v *Viewport) { v.remotes = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(v *Viewport) { v.logger = l }
}

// New creates a viewport showing initial on display. A nil display discards frames.
func New(params mandel.RasterParams, initial mandel.Region, display mandel.Display, opts ...Option) (*Viewport, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	if display == nil {
		display = discard{}
	}

	v := &Viewport{
		params:   params,
		initial:  initial,
		display:  display,
		renderer: render.EscapeTime{},
		workers:  runtime.GOMAXPROCS(0),
		tileSize: defaultTileSize,
		minSpan:  mandel.DefaultMinSpan,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(v)
	}
	v.bounds.Store(&initial)
	return v, nil
}

// Bounds returns the current view. It never blocks on a render in progress.
func (v *Viewport) Bounds() mandel.Region {
	return *v.bounds.Load()
}

func (v *Viewport) Params() mandel.RasterParams {
	return v.params
}

// Render computes a fresh escape field for the current bounds.
func (v *Viewport) Render() (*mandel.EscapeField, error) {
	return v.render(v.Bounds())
}

func (v *Viewport) render(region mandel.Region) (*mandel.EscapeField, error) {
	var remotes []mandel.Renderer
	if v.remotes != nil {
		remotes = v.remotes.Renderers()
	}

	start := time.Now()
	ts := newTileScheduler(v.params, region, v.tileSize, v.logger)
	field, err := ts.run(v.renderer, v.workers, remotes)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", region, err)
	}

	elapsed := time.Since(start)
	metrics.RenderDuration.Observe(elapsed.Seconds())
	metrics.PixelsRendered.Add(float64(len(field.Counts)))
	v.logger.Debug("render finished",
		"bounds", region.String(),
		"elapsed", elapsed,
		"inside", field.Inside(),
		"remotes", len(remotes),
	)
	return field, nil
}

// Show renders the current bounds and hands the field to the display.
func (v *Viewport) Show() error {
	v.cycle.Lock()
	defer v.cycle.Unlock()

	region := v.Bounds()
	field, err := v.render(region)
	if err != nil {
		return err
	}
	if err := v.display.ShowRaster(field, region); err != nil {
		return fmt.Errorf("display.ShowRaster: %w", err)
	}
	return nil
}

// ApplySelection zooms to the region spanned by p1 and p2, given in any order,
// and redraws. A selection narrower than the minimum span on either axis is
// rejected with mandel.ErrDegenerateSelection; bounds and display stay untouched.
func (v *Viewport) ApplySelection(p1, p2 mandel.Point) (mandel.Region, error) {
	region, err := mandel.SelectRegion(p1, p2, v.minSpan)
	if err != nil {
		metrics.Selections.WithLabelValues("rejected").Inc()
		v.logger.Debug("selection rejected", "p1", p1, "p2", p2)
		return v.Bounds(), err
	}
	metrics.Selections.WithLabelValues("accepted").Inc()

	v.cycle.Lock()
	defer v.cycle.Unlock()
	if err := v.redraw(region); err != nil {
		return v.Bounds(), err
	}
	return region, nil
}

// Reset returns to the initial bounds and redraws.
func (v *Viewport) Reset() error {
	v.cycle.Lock()
	defer v.cycle.Unlock()
	return v.redraw(v.initial)
}

// redraw must be called with v.cycle held. The bounds change only once the
// new frame has been shown.
func (v *Viewport) redraw(region mandel.Region) error {
	field, err := v.render(region)
	if err != nil {
		return err
	}
	if err := v.display.Clear(); err != nil {
		return fmt.Errorf("display.Clear: %w", err)
	}
	if err := v.display.ShowRaster(field, region); err != nil {
		return fmt.Errorf("display.ShowRaster: %w", err)
	}

	v.bounds.Store(&region)
	v.logger.Info("view changed", "bounds", region.String())
	return nil
}

type discard struct{}

func (discard) ShowRaster(*mandel.EscapeField, mandel.Region) error { return nil }
func (discard) Clear() error                                         { return nil }
