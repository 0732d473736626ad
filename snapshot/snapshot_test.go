package snapshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
	"github.com/marben/mandelzoom/render"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %q: %v", path, err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestDisplay_WritesNumberedFrames(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, "zoom", colormap.Viridis)
	p := mandel.RasterParams{Width: 16, Height: 8, MaxIter: 20}

	for range 2 {
		if err := d.Clear(); err != nil {
			t.Fatal(err)
		}
		if err := d.ShowRaster(render.Sequential(mandel.DefaultRegion, p), mandel.DefaultRegion); err != nil {
			t.Fatalf("ShowRaster: %v", err)
		}
	}

	want := []string{filepath.Join(dir, "zoom-000.png"), filepath.Join(dir, "zoom-001.png")}
	if diff := cmp.Diff(want, d.Frames()); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}
	if w, h := decodeSize(t, want[0]); w != 16 || h != 8 {
		t.Errorf("frame is %dx%d, want 16x8", w, h)
	}
}

func TestDisplay_ScaleAndAnnotate(t *testing.T) {
	dir := t.TempDir()
	d := New(dir, "zoom", colormap.Heat)
	d.Scale = 3
	d.Annotate = true

	p := mandel.RasterParams{Width: 40, Height: 10, MaxIter: 20}
	if err := d.ShowRaster(render.Sequential(mandel.DefaultRegion, p), mandel.DefaultRegion); err != nil {
		t.Fatalf("ShowRaster: %v", err)
	}
	if w, h := decodeSize(t, d.Frames()[0]); w != 120 || h != 30+footerHeight {
		t.Errorf("frame is %dx%d, want 120x%d", w, h, 30+footerHeight)
	}
}

func TestDisplay_MissingDir(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing"), "zoom", colormap.Viridis)
	p := mandel.RasterParams{Width: 2, Height: 2, MaxIter: 2}
	if err := d.ShowRaster(mandel.NewEscapeField(p), mandel.DefaultRegion); err == nil {
		t.Error("ShowRaster into a missing directory succeeded")
	}
	if len(d.Frames()) != 0 {
		t.Error("failed frame was recorded")
	}
}

func TestLabel(t *testing.T) {
	want := "Re [-2, 1]  Im [-1.5, 1.5]  iter 100"
	if got := Label(mandel.DefaultRegion, 100); got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}
