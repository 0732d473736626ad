package mandel

import (
	"fmt"
	"image"
)

// EscapeField holds one escape count per raster cell, row-major.
// Row 0 corresponds to Region.Ymin.
type EscapeField struct {
	Width, Height int
	MaxIter       int
	Counts        []int
}

// NewEscapeField allocates a zeroed field for p.
func NewEscapeField(p RasterParams) *EscapeField {
	return &EscapeField{
		Width:   p.Width,
		Height:  p.Height,
		MaxIter: p.MaxIter,
		Counts:  make([]int, p.Width*p.Height),
	}
}

func (f *EscapeField) At(row, col int) int {
	return f.Counts[row*f.Width+col]
}

func (f *EscapeField) Set(row, col, n int) {
	f.Counts[row*f.Width+col] = n
}

// Row returns the cells of one row. The slice aliases the field.
func (f *EscapeField) Row(row int) []int {
	return f.Counts[row*f.Width : (row+1)*f.Width]
}

// SetTile copies counts, row-major with tile.Dx() per row, into the cells of tile.
func (f *EscapeField) SetTile(tile image.Rectangle, counts []int) error {
	if !tile.In(image.Rect(0, 0, f.Width, f.Height)) {
		return fmt.Errorf("tile %v outside %dx%d field", tile, f.Width, f.Height)
	}
	if len(counts) != tile.Dx()*tile.Dy() {
		return fmt.Errorf("tile %v: got %d counts, want %d", tile, len(counts), tile.Dx()*tile.Dy())
	}
	w := tile.Dx()
	for i, row := 0, tile.Min.Y; row < tile.Max.Y; i, row = i+1, row+1 {
		copy(f.Row(row)[tile.Min.X:tile.Max.X], counts[i*w:(i+1)*w])
	}
	return nil
}

// Inside counts the cells that never escaped.
func (f *EscapeField) Inside() int {
	n := 0
	for _, c := range f.Counts {
		if !escaped(c, f.MaxIter) {
			n++
		}
	}
	return n
}

// Equal reports whether f and o have the same shape and identical counts.
func (f *EscapeField) Equal(o *EscapeField) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Width != o.Width || f.Height != o.Height || f.MaxIter != o.MaxIter || len(f.Counts) != len(o.Counts) {
		return false
	}
	for i := range f.Counts {
		if f.Counts[i] != o.Counts[i] {
			return false
		}
	}
	return true
}
