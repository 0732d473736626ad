package render

import (
	"fmt"
	"image"

	mandel "github.com/marben/mandelzoom"
)

// EscapeTime renders tiles with the plain escape-time count.
type EscapeTime struct {
	// OnTileRender, if set, is called before each tile is rendered.
	OnTileRender func(tile image.Rectangle)
}

var _ mandel.Renderer = EscapeTime{}

// RenderTile returns the escape count of every cell in tile, row-major.
// Tile coordinates are raster coordinates: X is the column, Y the row.
// The tile must lie within the w×h raster.
func (imp EscapeTime) RenderTile(r mandel.Region, tile image.Rectangle, w, h, maxIter int) ([]int, error) {
	params := mandel.RasterParams{Width: w, Height: h, MaxIter: maxIter}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !tile.In(image.Rect(0, 0, w, h)) {
		return nil, fmt.Errorf("tile %v outside %dx%d raster", tile, w, h)
	}

	if imp.OnTileRender != nil {
		imp.OnTileRender(tile)
	}

	counts := make([]int, 0, tile.Dx()*tile.Dy())
	for row := tile.Min.Y; row < tile.Max.Y; row++ {
		for col := tile.Min.X; col < tile.Max.X; col++ {
			counts = append(counts, mandel.IterationsToEscape(r.PlaneAt(params, row, col), maxIter))
		}
	}
	return counts, nil
}

// Sequential renders the whole field in a single pass, without tiling.
func Sequential(r mandel.Region, p mandel.RasterParams) *mandel.EscapeField {
	field := mandel.NewEscapeField(p)
	full := image.Rect(0, 0, p.Width, p.Height)
	counts, err := EscapeTime{}.RenderTile(r, full, p.Width, p.Height, p.MaxIter)
	if err != nil {
		panic(err) // p is invalid
	}
	if err := field.SetTile(full, counts); err != nil {
		panic(err)
	}
	return field
}
