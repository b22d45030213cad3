package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pipone-one/p2pminiapp/internal/app"
	"github.com/pipone-one/p2pminiapp/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "p2pwatch:", err)
		os.Exit(1)
	}
}

// run owns the service lifetime; it returns once ctx is cancelled and the
// scheduler, HTTP server and bot have stopped.
func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	service, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer service.Shutdown()

	return service.Run(ctx)
}
