// Package colormap turns escape fields into images.
package colormap

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	mandel "github.com/marben/mandelzoom"
)

// Palette is a sequence of color stops spread evenly over [0, 1].
type Palette []color.RGBA

// Viridis is the perceptually uniform palette, sampled at ten stops.
var Viridis = Palette{
	{0x44, 0x01, 0x54, 0xff},
	{0x48, 0x28, 0x78, 0xff},
	{0x3e, 0x49, 0x89, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x26, 0x82, 0x8e, 0xff},
	{0x1f, 0x9e, 0x89, 0xff},
	{0x35, 0xb7, 0x79, 0xff},
	{0x6e, 0xce, 0x58, 0xff},
	{0xb5, 0xde, 0x2b, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}

// Heat runs from white through light blue to deep blue.
var Heat = Palette{
	{255, 255, 255, 255},
	{255, 255, 255, 255},
	{70, 70, 255, 255},
	{35, 35, 255, 255},
	{0, 0, 255, 255},
}

// HSV cycles once through the hue circle at full saturation and value.
var HSV = hsvPalette(12)

var palettes = map[string]Palette{
	"viridis": Viridis,
	"heat":    Heat,
	"hsv":     HSV,
}

// ByName returns a built-in palette.
func ByName(name string) (Palette, error) {
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// At interpolates the palette at t, clamped to [0, 1].
func (p Palette) At(t float64) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{A: 0xff}
	}
	if len(p) == 1 || math.IsNaN(t) || t <= 0 {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}

	pos := t * float64(len(p)-1)
	i := int(pos)
	ratio := pos - float64(i)
	a, b := p[i], p[i+1]

	return color.RGBA{
		R: lerp(a.R, b.R, ratio),
		G: lerp(a.G, b.G, ratio),
		B: lerp(a.B, b.B, ratio),
		A: 0xff,
	}
}

func lerp(a, b uint8, ratio float64) uint8 {
	return uint8(math.Round(float64(a)*(1-ratio) + float64(b)*ratio))
}

// Image colors field with p over [0, MaxIter]. The field's last row (ymax)
// becomes the image's top row, so the imaginary axis grows upward.
func Image(field *mandel.EscapeField, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, field.Width, field.Height))

	// one color per possible count
	lut := make([]color.RGBA, field.MaxIter+1)
	for n := range lut {
		lut[n] = p.At(mandel.Fraction(n, field.MaxIter))
	}

	for row := 0; row < field.Height; row++ {
		y := field.Height - 1 - row
		for col, n := range field.Row(row) {
			n = min(max(n, 0), field.MaxIter)
			img.SetRGBA(col, y, lut[n])
		}
	}
	return img
}

// PlaneAtPixel converts a pixel of an image produced by Image back to the
// plane point shown there, for an image of size w x h showing r.
func PlaneAtPixel(r mandel.Region, w, h int, px, py float64) mandel.Point {
	return mandel.Point{
		X: r.Xmin + (r.Xmax-r.Xmin)*px/float64(w),
		Y: r.Ymax - (r.Ymax-r.Ymin)*py/float64(h),
	}
}

// simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

func hsvPalette(stops int) Palette {
	p := make(Palette, stops+1)
	for i := range stops {
		p[i] = hsv(float64(i)/float64(stops), 1, 1)
	}
	// inside the set
	p[stops] = color.RGBA{A: 0xff}
	return p
}
