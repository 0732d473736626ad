package mandel

import (
	"image"
)

//go:generate irpc $GOFILE

// Renderer computes escape counts for one tile of a w×h raster viewing r.
// The counts come back row-major, tile.Dx() per row.
// Implementations are local (render.EscapeTime) or remote workers reached over irpc.
type Renderer interface {
	RenderTile(r Region, tile image.Rectangle, w, h, maxIter int) ([]int, error)
}
