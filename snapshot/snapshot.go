// Package snapshot is a Display that writes every frame to a PNG file.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
)

const footerHeight = 20

// Display writes frames as <dir>/<prefix>-NNN.png.
type Display struct {
	dir     string
	prefix  string
	palette colormap.Palette

	// Scale enlarges every frame by an integer factor.
	Scale int
	// Annotate adds a footer with the bounds and iteration budget.
	Annotate bool

	mu     sync.Mutex
	frames []string
}

var _ mandel.Display = (*Display)(nil)

func New(dir, prefix string, palette colormap.Palette) *Display {
	return &Display{dir: dir, prefix: prefix, palette: palette, Scale: 1}
}

// ShowRaster encodes field into the next numbered PNG file.
func (d *Display) ShowRaster(field *mandel.EscapeField, bounds mandel.Region) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	img := d.compose(field, bounds)

	path := filepath.Join(d.dir, fmt.Sprintf("%s-%03d.png", d.prefix, len(d.frames)))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}

	d.frames = append(d.frames, path)
	return nil
}

// Clear is a no-op: every frame goes to a new, fully written file.
func (d *Display) Clear() error { return nil }

// Frames lists the files written so far, in order.
func (d *Display) Frames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.frames...)
}

func (d *Display) compose(field *mandel.EscapeField, bounds mandel.Region) image.Image {
	var img image.Image = colormap.Image(field, d.palette)

	if d.Scale > 1 {
		b := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*d.Scale, b.Dy()*d.Scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
		img = scaled
	}
	if !d.Annotate {
		return img
	}

	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+footerHeight))
	xdraw.Copy(out, image.Point{}, img, b, xdraw.Src, nil)
	xdraw.Draw(out, image.Rect(0, b.Dy(), b.Dx(), b.Dy()+footerHeight), image.NewUniform(color.Black), image.Point{}, xdraw.Src)

	drawer := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, b.Dy()+footerHeight-6),
	}
	drawer.DrawString(Label(bounds, field.MaxIter))
	return out
}

// Label describes a frame's extent the way the footer shows it.
func Label(bounds mandel.Region, maxIter int) string {
	return fmt.Sprintf("Re [%.6g, %.6g]  Im [%.6g, %.6g]  iter %d", bounds.Xmin, bounds.Xmax, bounds.Ymin, bounds.Ymax, maxIter)
}
