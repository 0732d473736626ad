package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/go-cmp/cmp"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/colormap"
)

var testParams = mandel.RasterParams{Width: 20, Height: 20, MaxIter: 20}

func testOptions() Options {
	return Options{
		Params:        testParams,
		Initial:       mandel.DefaultRegion,
		Palette:       colormap.Viridis,
		MinDragPixels: 5,
		Workers:       2,
		TileSize:      8,
		QueueSize:     4,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWith(t, testOptions())
}

func newTestServerWith(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv := NewServer(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) (context.Context, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return ctx, c
}

func readMsg(t *testing.T, ctx context.Context, c *websocket.Conn) serverMsg {
	t.Helper()
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("got %v message, want text", typ)
	}
	var msg serverMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return msg
}

// readFrame reads a frame header and its PNG and returns the header.
func readFrame(t *testing.T, ctx context.Context, c *websocket.Conn) serverMsg {
	t.Helper()
	msg := readMsg(t, ctx, c)
	if msg.Type != "frame" {
		t.Fatalf("got %q message, want frame", msg.Type)
	}
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("got %v message, want binary", typ)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode image: %v", err)
	}
	if got := img.Bounds().Size(); got.X != msg.Width || got.Y != msg.Height {
		t.Errorf("image is %v, header says %dx%d", got, msg.Width, msg.Height)
	}
	return msg
}

func expectClear(t *testing.T, ctx context.Context, c *websocket.Conn) {
	t.Helper()
	if msg := readMsg(t, ctx, c); msg.Type != "clear" {
		t.Fatalf("got %q message, want clear", msg.Type)
	}
}

func TestSession_SelectionCycle(t *testing.T) {
	ts := newTestServer(t)
	ctx, c := dial(t, ts)

	initial := readFrame(t, ctx, c)
	want := serverMsg{Type: "frame", Bounds: &boundsMsg{Xmin: -2, Xmax: 1, Ymin: -1.5, Ymax: 1.5}, Width: 20, Height: 20, MaxIter: 20}
	if diff := cmp.Diff(want, initial); diff != "" {
		t.Errorf("initial frame (-want +got):\n%s", diff)
	}

	// drag from the top-left corner to the center; top of the image is ymax
	if err := wsjson.Write(ctx, c, clientMsg{Type: "select", X1: 10, Y1: 10, X2: 0, Y2: 0}); err != nil {
		t.Fatal(err)
	}
	expectClear(t, ctx, c)
	zoomed := readFrame(t, ctx, c)
	if diff := cmp.Diff(&boundsMsg{Xmin: -2, Xmax: -0.5, Ymin: 0, Ymax: 1.5}, zoomed.Bounds); diff != "" {
		t.Errorf("zoomed bounds (-want +got):\n%s", diff)
	}

	// too small on the x axis: filtered, nothing is sent back for it
	if err := wsjson.Write(ctx, c, clientMsg{Type: "select", X1: 0, Y1: 0, X2: 2, Y2: 15}); err != nil {
		t.Fatal(err)
	}
	if err := wsjson.Write(ctx, c, clientMsg{Type: "reset"}); err != nil {
		t.Fatal(err)
	}
	expectClear(t, ctx, c)
	reset := readFrame(t, ctx, c)
	if diff := cmp.Diff(want.Bounds, reset.Bounds); diff != "" {
		t.Errorf("bounds after reset (-want +got):\n%s", diff)
	}

	c.Close(websocket.StatusNormalClosure, "")
}

func TestServer_StaticAndHealth(t *testing.T) {
	ts := newTestServer(t)

	for path, want := range map[string]string{
		"/":        "<canvas",
		"/healthz": "ok",
		"/metrics": "mandelzoom_ws_active_sessions",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
		if !strings.Contains(string(body), want) {
			t.Errorf("GET %s: body does not contain %q", path, want)
		}
	}
}
