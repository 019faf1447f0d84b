package ports

import (
	"context"
	"errors"
	"net/http"

	"macromanager/internal/domain"
)

// ErrSkip lets a Chooser leave a food out of the meal.
var ErrSkip = errors.New("food skipped")

// HTTPDoer is the transport primitive the upstream adapter issues requests with.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FoodSearcher resolves a free-text food name to ranked candidates.
type FoodSearcher interface {
	SearchFood(ctx context.Context, apiKey, name string) ([]domain.FoodCandidate, error)
}

// PanelFetcher retrieves one nutrient panel per id, in input order.
type PanelFetcher interface {
	FetchPanels(ctx context.Context, apiKey string, ids []int64) ([][]domain.NutrientEntry, error)
}

// FoodDatabase is the full upstream surface the nutrition client depends on.
type FoodDatabase interface {
	FoodSearcher
	PanelFetcher
}

// QuotaSource exposes the last rate-limit values seen upstream.
type QuotaSource interface {
	Snapshot() domain.Quota
}

// Chooser resolves search ambiguity for one food, usually by asking a person.
type Chooser interface {
	Choose(ctx context.Context, food string, candidates []domain.FoodCandidate) (domain.FoodSelection, error)
	NoMatches(ctx context.Context, food string) error
}
