package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"macromanager/internal/domain"
	"macromanager/internal/logging"
	"macromanager/internal/ports"
)

// NutritionClient is the public face of the system: it owns the API key and
// composes search, panel retrieval and aggregation.
type NutritionClient struct {
	db     ports.FoodDatabase
	quota  ports.QuotaSource
	logger *slog.Logger

	mu     sync.RWMutex
	apiKey string
}

// NewNutritionClient wires the upstream adapter. quota may be nil.
func NewNutritionClient(db ports.FoodDatabase, quota ports.QuotaSource, logger *slog.Logger) *NutritionClient {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NutritionClient{db: db, quota: quota, logger: logger}
}

// Configure stores the API key used by every later call. A blank key unsets it.
func (c *NutritionClient) Configure(apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(apiKey)
}

// Configured reports whether an API key is set.
func (c *NutritionClient) Configured() bool {
	_, err := c.key()
	return err == nil
}

// Quota returns the latest upstream rate-limit snapshot.
func (c *NutritionClient) Quota() domain.Quota {
	if c.quota == nil {
		return domain.Quota{}
	}
	return c.quota.Snapshot()
}

// SearchFood returns ranked candidates for name. No matches yields an empty
// slice and a nil error; a failed request yields a nil slice and an error.
func (c *NutritionClient) SearchFood(ctx context.Context, name string) ([]domain.FoodCandidate, error) {
	key, err := c.key()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.InvalidArgument("name", "must not be empty")
	}

	candidates, err := c.db.SearchFood(ctx, key, name)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}
	c.logger.Debug("search resolved", "query", name, "candidates", len(candidates))
	return candidates, nil
}

// FetchPanels returns one nutrient panel per id, in the order of ids.
func (c *NutritionClient) FetchPanels(ctx context.Context, ids []int64) ([][]domain.NutrientEntry, error) {
	key, err := c.key()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.InvalidArgument("ids", "must not be empty")
	}

	panels, err := c.db.FetchPanels(ctx, key, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch panels: %w", err)
	}
	if len(panels) != len(ids) {
		return nil, fmt.Errorf("fetch panels: got %d panels for %d ids", len(panels), len(ids))
	}
	return panels, nil
}

// Aggregate combines already fetched panels; see the package-level Aggregate.
func (c *NutritionClient) Aggregate(panels [][]domain.NutrientEntry, amounts []float64) (*domain.NutrientProfile, error) {
	return Aggregate(panels, amounts)
}

// ComputeProfile fetches the panels of all selections in one batch and
// returns the combined profile for the selected servings.
func (c *NutritionClient) ComputeProfile(ctx context.Context, selections []domain.FoodSelection) (*domain.NutrientProfile, error) {
	if _, err := c.key(); err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, domain.InvalidArgument("selections", "must not be empty")
	}

	ids := make([]int64, len(selections))
	amounts := make([]float64, len(selections))
	for i, sel := range selections {
		if sel.FDCID <= 0 {
			return nil, domain.InvalidArgument("selections", "position %d: fdcId must be positive, got %d", i, sel.FDCID)
		}
		if err := domain.ValidateAmount(fmt.Sprintf("selections[%d].amountGrams", i), sel.AmountGrams); err != nil {
			return nil, err
		}
		ids[i] = sel.FDCID
		amounts[i] = sel.AmountGrams
	}

	panels, err := c.FetchPanels(ctx, ids)
	if err != nil {
		return nil, err
	}

	profile, err := Aggregate(panels, amounts)
	if err != nil {
		c.logger.Warn("aggregation failed", "foods", len(selections), "error", err)
		return nil, err
	}

	quota := c.Quota()
	c.logger.Info("profile computed",
		"foods", len(selections),
		"nutrients", profile.Len(),
		"quota_remaining", quota.Remaining,
	)
	return profile, nil
}

func (c *NutritionClient) key() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.apiKey == "" {
		return "", domain.ErrConfiguration
	}
	return c.apiKey, nil
}
