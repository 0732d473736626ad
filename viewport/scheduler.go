package viewport

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelzoom"
)

var errIncomplete = errors.New("render incomplete")

// tileScheduler hands out the tiles of one field to a pool of workers.
// A scheduler is used for a single render and then discarded.
type tileScheduler struct {
	region mandel.Region
	params mandel.RasterParams
	field  *mandel.EscapeField
	logger *slog.Logger

	totalPixels    int
	finishedPixels int

	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
	done      chan struct{}
	m         sync.Mutex
}

func newTileScheduler(p mandel.RasterParams, region mandel.Region, tileSize int, logger *slog.Logger) *tileScheduler {
	allTilesSlice := splitRectNoClip(image.Rect(0, 0, p.Width, p.Height), tileSize, tileSize)
	allTiles := make(map[image.Rectangle]struct{}, len(allTilesSlice))
	for _, t := range allTilesSlice {
		allTiles[t] = struct{}{}
	}
	return &tileScheduler{
		region:      region,
		params:      p,
		field:       mandel.NewEscapeField(p),
		logger:      logger,
		unstarted:   allTiles,
		inProcess:   make(map[image.Rectangle]struct{}),
		done:        make(chan struct{}),
		totalPixels: p.Width * p.Height,
	}
}

func (ts *tileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	// Get unstarted tile
	for tile = range ts.unstarted {
		delete(ts.unstarted, tile)
		ts.inProcess[tile] = struct{}{}
		return tile, true
	}

	// If there is no unstarted tile, we work again on a started one.
	// A slow or failed worker then cannot hold the render back.
	for tile = range ts.inProcess {
		return tile, true
	}

	return image.Rectangle{}, false
}

// tileFinished stores counts for tile. Only the first result for a tile is kept.
func (ts *tileScheduler) tileFinished(tile image.Rectangle, counts []int) error {
	ts.m.Lock()
	if _, found := ts.inProcess[tile]; !found {
		ts.m.Unlock()
		return nil
	}
	if err := ts.field.SetTile(tile, counts); err != nil {
		ts.m.Unlock()
		return err
	}
	ts.finishedPixels += tile.Dx() * tile.Dy()
	delete(ts.inProcess, tile)
	finished := float32(ts.finishedPixels) / float32(ts.totalPixels)
	if len(ts.unstarted) == 0 && len(ts.inProcess) == 0 {
		close(ts.done)
	}
	ts.m.Unlock()

	ts.logger.Debug("tile finished", "tile", tile.String(), "finished", finished)
	return nil
}

func (ts *tileScheduler) complete() bool {
	ts.m.Lock()
	defer ts.m.Unlock()
	return len(ts.unstarted) == 0 && len(ts.inProcess) == 0
}

// work renders tiles until none are left.
// Can be called from multiple goroutines in parallel.
func (ts *tileScheduler) work(renderer mandel.Renderer) error {
	for {
		tile, found := ts.popTile()
		if !found {
			return nil
		}
		counts, err := renderer.RenderTile(ts.region, tile, ts.params.Width, ts.params.Height, ts.params.MaxIter)
		if err != nil {
			return fmt.Errorf("render of tile %s: %w", tile, err)
		}
		if err := ts.tileFinished(tile, counts); err != nil {
			return err
		}
	}
}

// run renders every tile on workers goroutines of local plus one goroutine
// per remote renderer, and returns the field once every tile is done.
// A failing renderer leaves the pool; its tiles are picked up by the others.
// Remote renderers still busy when the field completes are not waited for.
func (ts *tileScheduler) run(local mandel.Renderer, workers int, remotes []mandel.Renderer) (*mandel.EscapeField, error) {
	var g errgroup.Group
	for range workers {
		g.Go(func() error { return ts.work(local) })
	}
	for _, r := range remotes {
		g.Go(func() error {
			err := ts.work(r)
			if err != nil {
				ts.logger.Warn("remote renderer failed", "error", err)
			}
			return err
		})
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- g.Wait() }()

	select {
	case <-ts.done:
		return ts.field, nil
	case err := <-waitErr:
		if ts.complete() {
			return ts.field, nil
		}
		return nil, errors.Join(errIncomplete, err)
	}
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := min(tileH, h-oy)

		for ox := 0; ox < w; ox += tileW {
			tw := min(tileW, w-ox)

			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}

	return tiles
}
