// cliclient renders the Mandelbrot set to PNG files without a browser.
// It draws the starting view, then applies every --select in order, writing
// one frame per accepted selection.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/logging"
	"github.com/marben/mandelzoom/snapshot"
	"github.com/marben/mandelzoom/viewport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}

// run parses args, renders the frames and reports where they were saved.
func run(args []string) error {
	fs := pflag.NewFlagSet("cliclient", pflag.ContinueOnError)
	config.Flags(fs)
	outDir := fs.String("out-dir", ".", "directory for the PNG frames")
	prefix := fs.String("prefix", "mandel", "frame file name prefix")
	selects := fs.StringArray("select", nil, "zoom to the plane rectangle x1,y1,x2,y2 (repeatable)")
	scale := fs.Int("scale", 1, "enlarge frames by this integer factor")
	annotate := fs.Bool("annotate", false, "add a footer with the view bounds")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	selections := make([][2]mandel.Point, 0, len(*selects))
	for _, s := range *selects {
		sel, err := parseSelection(s)
		if err != nil {
			return err
		}
		selections = append(selections, sel)
	}

	initial, err := cfg.View.Region()
	if err != nil {
		return err
	}
	palette, err := colormap.ByName(cfg.Display.Palette)
	if err != nil {
		return err
	}

	display := snapshot.New(*outDir, *prefix, palette)
	display.Scale = *scale
	display.Annotate = *annotate

	vp, err := viewport.New(cfg.Raster.Params(), initial, display,
		viewport.WithWorkers(cfg.Render.Workers),
		viewport.WithTileSize(cfg.Render.TileSize),
		viewport.WithMinSpan(cfg.View.MinSpan),
		viewport.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Info("rendering starting view", "bounds", initial.String())
	if err := vp.Show(); err != nil {
		return err
	}

	for i, sel := range selections {
		region, err := vp.ApplySelection(sel[0], sel[1])
		if errors.Is(err, mandel.ErrDegenerateSelection) {
			logger.Warn("skipping degenerate selection", "index", i, "select", (*selects)[i])
			continue
		}
		if err != nil {
			return fmt.Errorf("selection %d: %w", i, err)
		}
		logger.Info("zoomed", "index", i, "bounds", region.String())
	}

	for _, f := range display.Frames() {
		logger.Info("frame saved", "file", f)
	}
	return nil
}

// parseSelection reads "x1,y1,x2,y2" into two opposite corners.
func parseSelection(s string) ([2]mandel.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return [2]mandel.Point{}, fmt.Errorf("selection %q: want x1,y1,x2,y2", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [2]mandel.Point{}, fmt.Errorf("selection %q: %w", s, err)
		}
		v[i] = f
	}
	return [2]mandel.Point{{X: v[0], Y: v[1]}, {X: v[2], Y: v[3]}}, nil
}
