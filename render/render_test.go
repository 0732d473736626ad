package render

import (
	"image"
	"math"
	"net"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/marben/irpc"

	mandel "github.com/marben/mandelzoom"
)

func TestSequential_Shape(t *testing.T) {
	p := mandel.RasterParams{Width: 10, Height: 5, MaxIter: 50}
	field := Sequential(mandel.DefaultRegion, p)

	if field.Width != 10 || field.Height != 5 {
		t.Fatalf("field is %dx%d, want 10x5", field.Width, field.Height)
	}
	if len(field.Counts) != 50 {
		t.Fatalf("len(Counts) = %d, want 50", len(field.Counts))
	}
	for row := 0; row < field.Height; row++ {
		for col, n := range field.Row(row) {
			if n < 0 || n > p.MaxIter {
				t.Errorf("cell (%d, %d) = %d, out of [0, %d]", row, col, n, p.MaxIter)
			}
			want := mandel.IterationsToEscape(mandel.DefaultRegion.PlaneAt(p, row, col), p.MaxIter)
			if n != want {
				t.Errorf("cell (%d, %d) = %d, want %d", row, col, n, want)
			}
		}
	}
}

func TestRenderTile_RowMajorCounts(t *testing.T) {
	p := mandel.RasterParams{Width: 8, Height: 8, MaxIter: 20}
	full := Sequential(mandel.DefaultRegion, p)

	var rendered []image.Rectangle
	r := EscapeTime{OnTileRender: func(tile image.Rectangle) { rendered = append(rendered, tile) }}
	tile := image.Rect(2, 3, 5, 6)
	counts, err := r.RenderTile(mandel.DefaultRegion, tile, p.Width, p.Height, p.MaxIter)
	if err != nil {
		t.Fatal(err)
	}

	if len(rendered) != 1 || rendered[0] != tile {
		t.Errorf("OnTileRender calls = %v, want [%v]", rendered, tile)
	}
	var want []int
	for row := tile.Min.Y; row < tile.Max.Y; row++ {
		want = append(want, full.Row(row)[tile.Min.X:tile.Max.X]...)
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("tile counts (-want +got):\n%s", diff)
	}
}

func TestRenderTile_Invalid(t *testing.T) {
	for name, tc := range map[string]struct {
		tile          image.Rectangle
		w, h, maxIter int
	}{
		"outside raster": {image.Rect(2, 2, 64, 64), 4, 4, 10},
		"zero width":     {image.Rect(0, 0, 1, 1), 0, 4, 10},
		"zero budget":    {image.Rect(0, 0, 1, 1), 4, 4, 0},
	} {
		if _, err := (EscapeTime{}).RenderTile(mandel.DefaultRegion, tc.tile, tc.w, tc.h, tc.maxIter); err == nil {
			t.Errorf("%s: RenderTile succeeded", name)
		}
	}
}

func TestRenderTile_NonFiniteCoordinates(t *testing.T) {
	p := mandel.RasterParams{Width: 4, Height: 4, MaxIter: 10}
	r := mandel.Region{Xmin: math.Inf(-1), Xmax: 0, Ymin: 0, Ymax: 1}
	field := Sequential(r, p)
	for i, n := range field.Counts {
		if n != 0 {
			t.Errorf("cell %d = %d, want 0 for non-finite coordinates", i, n)
		}
	}
}

// newRemote serves EscapeTime on one end of a pipe and returns a client on the other.
func newRemote(t *testing.T) mandel.Renderer {
	t.Helper()
	workerConn, serverConn := net.Pipe()

	workerEp := irpc.NewEndpoint(workerConn, irpc.WithEndpointServices(mandel.NewRendererIrpcService(EscapeTime{})))
	t.Cleanup(func() { workerEp.Close() })
	serverEp := irpc.NewEndpoint(serverConn)
	t.Cleanup(func() { serverEp.Close() })

	client, err := mandel.NewRendererIrpcClient(serverEp)
	if err != nil {
		t.Fatalf("NewRendererIrpcClient: %v", err)
	}
	return client
}

func TestRenderTile_OverIrpc(t *testing.T) {
	remote := newRemote(t)
	p := mandel.RasterParams{Width: 16, Height: 12, MaxIter: 40}

	for _, tile := range []image.Rectangle{
		image.Rect(0, 0, 16, 12),
		image.Rect(3, 5, 11, 7),
	} {
		want, err := EscapeTime{}.RenderTile(mandel.SeahorseValley, tile, p.Width, p.Height, p.MaxIter)
		if err != nil {
			t.Fatal(err)
		}
		got, err := remote.RenderTile(mandel.SeahorseValley, tile, p.Width, p.Height, p.MaxIter)
		if err != nil {
			t.Fatalf("remote RenderTile %v: %v", tile, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("tile %v (-local +remote):\n%s", tile, diff)
		}
	}

	_, err := remote.RenderTile(mandel.DefaultRegion, image.Rect(0, 0, 99, 99), 4, 4, 10)
	if err == nil || !strings.Contains(err.Error(), "outside 4x4 raster") {
		t.Errorf("remote error = %v, want the worker's error", err)
	}
}
