package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/marben/mandelzoom/internal/cluster"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/logging"
	"github.com/marben/mandelzoom/render"
)

const retryDelay = 2 * time.Second

// main connects to a viewer server started with --worker-addr and renders
// tiles for it until interrupted. A lost connection is retried.
func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("worker", pflag.ContinueOnError)
	config.Flags(fs)
	config.WorkerFlags(fs)
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
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format).With("server", cfg.Worker.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.EscapeTime{}
	for {
		logger.Info("connecting")
		err := cluster.Dial(ctx, cfg.Worker.Server, renderer)
		if ctx.Err() != nil {
			logger.Info("stopped")
			return nil
		}
		logger.Warn("connection ended", "error", err, "retry_in", retryDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retryDelay):
		}
	}
}
