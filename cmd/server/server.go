package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marben/irpc"
	"github.com/spf13/pflag"

	"github.com/marben/mandelzoom/colormap"
	"github.com/marben/mandelzoom/internal/cluster"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/logging"
	"github.com/marben/mandelzoom/internal/web"
)

// main is the entry point for the mandelzoom viewer server.
// Every browser connected to /ws gets its own view and zooms independently.
func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	config.Flags(fs)
	config.ServerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	initial, err := cfg.View.Region()
	if err != nil {
		return err
	}
	palette, err := colormap.ByName(cfg.Display.Palette)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	// Remote workers dial in over irpc and render tiles for every session
	var remotes *cluster.Pool
	if cfg.Server.WorkerAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.WorkerAddr)
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}
		remotes = cluster.NewPool()
		irpcServer := cluster.NewServer(remotes, logger)
		defer irpcServer.Close()
		go func() {
			logger.Info("waiting for render workers", "addr", lis.Addr().String())
			if err := irpcServer.Serve(lis); err != nil && !errors.Is(err, irpc.ErrServerClosed) {
				errCh <- fmt.Errorf("irpcServer.Serve: %w", err)
			}
		}()
	}

	opts := web.Options{
		Params:         cfg.Raster.Params(),
		Initial:        initial,
		Palette:        palette,
		MinDragPixels:  cfg.Display.MinDragPixels,
		MinSpan:        cfg.View.MinSpan,
		Workers:        cfg.Render.Workers,
		TileSize:       cfg.Render.TileSize,
		QueueSize:      cfg.Server.QueueSize,
		OriginPatterns: cfg.Server.OriginPatterns,
		Logger:         logger,
	}
	if remotes != nil {
		opts.Remotes = remotes
	}
	srv := web.NewServer(opts)

	// Sessions live on hijacked connections that Shutdown does not track;
	// deriving request contexts from ctx ends them on a signal.
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("listening",
			"addr", cfg.Server.Addr,
			"raster", fmt.Sprintf("%dx%d", cfg.Raster.Width, cfg.Raster.Height),
			"max_iter", cfg.Raster.MaxIter,
			"bounds", initial.String(),
		)
		errCh <- fmt.Errorf("httpServer: %w", httpServer.ListenAndServe())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}
