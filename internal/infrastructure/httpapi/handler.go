// Package httpapi exposes the nutrition client as a small JSON API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"macromanager/internal/domain"
	"macromanager/internal/logging"
	"macromanager/internal/usecase"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// Handler serves the nutrition client over JSON.
type Handler struct {
	client *usecase.NutritionClient
	logger *slog.Logger
}

// NewHandler uses a discarding logger when logger is nil.
func NewHandler(client *usecase.NutritionClient, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{client: client, logger: logger}
}

// NewRouter builds a gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(h.requestID(), gin.Recovery())

	router.GET("/healthz", h.health)
	h.RegisterRoutes(router.Group("/api"))
	return router
}

// RegisterRoutes mounts the API endpoints on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/foods/search", h.search) // GET /api/foods/search?query=avocado
	rg.POST("/profile", h.profile)    // POST /api/profile
	rg.GET("/quota", h.quota)         // GET /api/quota
}

type foodJSON struct {
	Description string `json:"description"`
	FDCID       int64  `json:"fdcId"`
}

type selectionJSON struct {
	FDCID       int64    `json:"fdcId"`
	AmountGrams *float64 `json:"amountGrams"`
}

type profileRequest struct {
	Selections []selectionJSON `json:"selections"`
}

type nutrientJSON struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type quotaJSON struct {
	Limit     string `json:"limit"`
	Remaining string `json:"remaining"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "configured": h.client.Configured()})
}

func (h *Handler) search(c *gin.Context) {
	candidates, err := h.client.SearchFood(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.fail(c, err)
		return
	}

	foods := make([]foodJSON, 0, len(candidates))
	for _, cand := range candidates {
		foods = append(foods, foodJSON{Description: cand.DisplayName, FDCID: cand.FDCID})
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *Handler) profile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.InvalidArgument("body", "%v", err))
		return
	}

	selections := make([]domain.FoodSelection, 0, len(req.Selections))
	for _, s := range req.Selections {
		grams := domain.DefaultAmountGrams
		if s.AmountGrams != nil {
			grams = *s.AmountGrams
		}
		selections = append(selections, domain.FoodSelection{FDCID: s.FDCID, AmountGrams: grams})
	}

	profile, err := h.client.ComputeProfile(c.Request.Context(), selections)
	if err != nil {
		h.fail(c, err)
		return
	}

	nutrients := make([]nutrientJSON, 0, profile.Len())
	for _, entry := range profile.Entries() {
		nutrients = append(nutrients, nutrientJSON{Name: entry.Name, Amount: entry.Amount, Unit: entry.Unit})
	}
	c.JSON(http.StatusOK, gin.H{"nutrients": nutrients, "quota": toQuotaJSON(h.client.Quota())})
}

func (h *Handler) quota(c *gin.Context) {
	c.JSON(http.StatusOK, toQuotaJSON(h.client.Quota()))
}

func toQuotaJSON(q domain.Quota) quotaJSON {
	return quotaJSON{Limit: q.Limit, Remaining: q.Remaining}
}

// fail maps the error taxonomy onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		invalid  *domain.InvalidArgumentError
		mismatch *domain.UnitMismatchError
		upstream *domain.UpstreamError
	)

	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		body["error"] = "upstream request timed out"
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConfiguration):
		status = http.StatusServiceUnavailable
	case errors.As(err, &mismatch):
		status = http.StatusUnprocessableEntity
		body["nutrient"] = mismatch.Nutrient
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		body["upstreamStatus"] = upstream.StatusCode
	default:
		body["error"] = "internal error"
	}

	requestLogger(c, h.logger).Warn("request failed", "status", status, "error", err)
	c.JSON(status, body)
}

// requestID tags each request with an id, reusing the caller's when present.
func (h *Handler) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		logger := h.logger.With("request_id", id)
		c.Set(loggerKey, logger)

		started := time.Now()
		c.Next()

		logger.Debug("request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(started),
		)
	}
}

func requestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return fallback
}
