package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"macromanager/internal/app"
	"macromanager/internal/config"
	"macromanager/internal/domain"
	"macromanager/internal/logging"
)

func main() {
	foods := flag.String("foods", "", "comma separated food names (prompted when empty)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	application := app.New(cfg, logger)

	if err := application.RunInteractive(ctx, os.Stdin, os.Stdout, *foods); err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			fmt.Fprintln(os.Stderr, "API key is not set. Set FDC_API_KEY or enter it when prompted.")
		}
		logger.Error("session stopped", "error", err)
		os.Exit(1)
	}
}
