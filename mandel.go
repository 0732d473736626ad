package mandel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrDegenerateSelection is returned when a selection would produce a view
// with zero or near-zero width or height. Displays treat it as a no-op.
var ErrDegenerateSelection = errors.New("degenerate selection")

// DefaultMinSpan is the smallest accepted width or height of a selected region.
const DefaultMinSpan = 1e-12

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// DefaultRegion frames the whole set.
var DefaultRegion = Region{
	Xmin: -2.0,
	Xmax: 1.0,
	Ymin: -1.5,
	Ymax: 1.5,
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var namedRegions = map[string]Region{
	"default":                 DefaultRegion,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// RegionByName looks up a landmark region, e.g. "seahorse-valley".
func RegionByName(name string) (Region, bool) {
	r, ok := namedRegions[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// RegionNames lists the names accepted by RegionByName, sorted.
func RegionNames() []string {
	names := make([]string, 0, len(namedRegions))
	for n := range namedRegions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Width of the region on the real axis.
func (r Region) Width() float64 { return r.Xmax - r.Xmin }

// Height of the region on the imaginary axis.
func (r Region) Height() float64 { return r.Ymax - r.Ymin }

// Validate reports whether r is a usable view: finite, with min < max on both axes.
func (r Region) Validate() error {
	for _, v := range [...]float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("region %s: non-finite bound", r)
		}
	}
	if !(r.Xmin < r.Xmax) {
		return fmt.Errorf("region %s: xmin must be less than xmax", r)
	}
	if !(r.Ymin < r.Ymax) {
		return fmt.Errorf("region %s: ymin must be less than ymax", r)
	}
	return nil
}

// PlaneAt maps raster cell (row, col) of a p-sized raster onto the complex plane.
// The mapping is a plain linear interpolation per axis: it does not correct for
// a plane aspect ratio that differs from the raster's, so such views render stretched.
func (r Region) PlaneAt(p RasterParams, row, col int) complex128 {
	x := r.Xmin + (r.Xmax-r.Xmin)*float64(col)/float64(p.Width)
	y := r.Ymin + (r.Ymax-r.Ymin)*float64(row)/float64(p.Height)
	return complex(x, y)
}

func (r Region) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// Point on the complex plane, one corner of a selection.
type Point struct {
	X, Y float64
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// SelectRegion builds the region spanned by two opposite corners given in any order.
// It returns ErrDegenerateSelection if either span is below minSpan.
func SelectRegion(p1, p2 Point, minSpan float64) (Region, error) {
	if !p1.finite() || !p2.finite() {
		return Region{}, ErrDegenerateSelection
	}
	r := Region{
		Xmin: math.Min(p1.X, p2.X),
		Xmax: math.Max(p1.X, p2.X),
		Ymin: math.Min(p1.Y, p2.Y),
		Ymax: math.Max(p1.Y, p2.Y),
	}
	if r.Width() <= 0 || r.Height() <= 0 || r.Width() < minSpan || r.Height() < minSpan {
		return Region{}, ErrDegenerateSelection
	}
	return r, nil
}

// RasterParams fixes the output resolution and the iteration budget.
type RasterParams struct {
	Width, Height int
	MaxIter       int
}

// DefaultRasterParams is an 800x800 raster with 100 iterations per pixel.
var DefaultRasterParams = RasterParams{
	Width:   800,
	Height:  800,
	MaxIter: 100,
}

func (p RasterParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("raster %dx%d: dimensions must be positive", p.Width, p.Height)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("raster max_iter %d: must be positive", p.MaxIter)
	}
	return nil
}
