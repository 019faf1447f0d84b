package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"macromanager/internal/config"
	"macromanager/internal/domain"
	"macromanager/internal/infrastructure/console"
	"macromanager/internal/infrastructure/fdc"
	"macromanager/internal/infrastructure/httpapi"
	"macromanager/internal/logging"
	"macromanager/internal/ratelimit"
	"macromanager/internal/usecase"
)

// Application wires configs to the nutrition client and its front ends.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	client *usecase.NutritionClient
}

// New builds the client stack; the API key from config is applied when present.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format, nil)
	}

	tracker := ratelimit.NewTracker(cfg.FDC.RateLimitHeaders.Limit, cfg.FDC.RateLimitHeaders.Remaining)
	database := fdc.NewClient(cfg.FDC, nil, tracker, baseLogger.With("component", "fdc"))

	client := usecase.NewNutritionClient(database, tracker, baseLogger.With("component", "nutrition"))
	if cfg.FDC.APIKey != "" {
		client.Configure(cfg.FDC.APIKey)
	}

	return &Application{cfg: cfg, logger: baseLogger, client: client}
}

// Client exposes the facade for callers embedding the application.
func (a *Application) Client() *usecase.NutritionClient {
	return a.client
}

// RunInteractive asks for a key (if none is configured) and a food list (if
// foods is blank), resolves every food with the user and prints the profile.
func (a *Application) RunInteractive(ctx context.Context, in io.Reader, out io.Writer, foods string) error {
	prompter := console.NewPrompter(in, out)

	if !a.client.Configured() {
		key, err := prompter.ReadLine("Enter API Key: ")
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read api key: %w", err)
		}
		a.client.Configure(key)
		if !a.client.Configured() {
			return domain.ErrConfiguration
		}
	}

	if foods == "" {
		line, err := prompter.ReadLine("Enter Foods (comma separated): ")
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read foods: %w", err)
		}
		foods = line
	}

	session := usecase.NewSession(a.client, prompter, a.logger.With("component", "session"))
	profile, err := session.Run(ctx, foods)
	if err != nil {
		return err
	}
	return console.RenderProfile(out, profile, a.client.Quota())
}

// Router returns the HTTP API handler.
func (a *Application) Router() *gin.Engine {
	return httpapi.NewRouter(httpapi.NewHandler(a.client, a.logger.With("component", "httpapi")))
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http api listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http api: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http api: %w", err)
	}
}
