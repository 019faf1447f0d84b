package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"macromanager/internal/app"
	"macromanager/internal/config"
	"macromanager/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	gin.SetMode(gin.ReleaseMode)

	application := app.New(cfg, logger)
	if !application.Client().Configured() {
		logger.Warn("FDC_API_KEY is not set; requests will fail until it is configured")
	}

	if err := application.Serve(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
