// Package cluster connects remote tile renderers to the viewer server over irpc.
// Workers dial the server and serve mandel.Renderer; the server calls them.
package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/marben/irpc"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/metrics"
)

// Pool is the set of currently connected remote renderers.
type Pool struct {
	m         sync.Mutex
	renderers map[*mandel.RendererIrpcClient]struct{}
}

func NewPool() *Pool {
	return &Pool{renderers: make(map[*mandel.RendererIrpcClient]struct{})}
}

// Renderers implements viewport.RemoteSource.
func (p *Pool) Renderers() []mandel.Renderer {
	p.m.Lock()
	defer p.m.Unlock()
	out := make([]mandel.Renderer, 0, len(p.renderers))
	for r := range p.renderers {
		out = append(out, r)
	}
	return out
}

func (p *Pool) Len() int {
	p.m.Lock()
	defer p.m.Unlock()
	return len(p.renderers)
}

func (p *Pool) add(r *mandel.RendererIrpcClient) {
	p.m.Lock()
	p.renderers[r] = struct{}{}
	n := len(p.renderers)
	p.m.Unlock()
	metrics.RemoteWorkers.Set(float64(n))
}

func (p *Pool) remove(r *mandel.RendererIrpcClient) {
	p.m.Lock()
	delete(p.renderers, r)
	n := len(p.renderers)
	p.m.Unlock()
	metrics.RemoteWorkers.Set(float64(n))
}

// NewServer returns an irpc server that adds every connecting worker to pool
// for as long as its connection lasts.
func NewServer(pool *Pool, logger *slog.Logger) *irpc.Server {
	return irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		logger := logger.With("worker", fmt.Sprint(ep.RemoteAddr()))

		// Each worker provides us with a mandel.Renderer for the tiles of every render
		client, err := mandel.NewRendererIrpcClient(ep)
		if err != nil {
			logger.Warn("new renderer client", "error", err)
			ep.Close()
			return
		}
		pool.add(client)
		logger.Info("worker connected", "workers", pool.Len())

		go func() {
			<-ep.Context().Done()
			pool.remove(client)
			logger.Info("worker disconnected", "cause", context.Cause(ep.Context()), "workers", pool.Len())
		}()
	}))
}

// Serve serves r on conn until the connection ends or ctx is done.
func Serve(ctx context.Context, conn net.Conn, r mandel.Renderer) error {
	ep := irpc.NewEndpoint(conn,
		irpc.WithEndpointServices(mandel.NewRendererIrpcService(r)),
		irpc.WithLocalAddress(conn.LocalAddr()),
		irpc.WithRemoteAddress(conn.RemoteAddr()),
	)
	select {
	case <-ctx.Done():
		ep.Close()
		return ctx.Err()
	case <-ep.Context().Done():
		return context.Cause(ep.Context())
	}
}

// Dial connects to the server at addr and serves r on the connection.
func Dial(ctx context.Context, addr string, r mandel.Renderer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	return Serve(ctx, conn, r)
}
