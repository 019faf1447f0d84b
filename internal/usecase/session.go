package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"macromanager/internal/domain"
	"macromanager/internal/logging"
	"macromanager/internal/ports"
)

// Session walks a list of food names one at a time: search, let the chooser
// pick a candidate and serving, then combine everything picked.
type Session struct {
	client  *NutritionClient
	chooser ports.Chooser
	logger  *slog.Logger
}

// NewSession binds a client to a chooser.
func NewSession(client *NutritionClient, chooser ports.Chooser, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{client: client, chooser: chooser, logger: logger}
}

// SplitFoods splits comma-separated input into trimmed, non-empty names.
func SplitFoods(text string) []string {
	var foods []string
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			foods = append(foods, name)
		}
	}
	return foods
}

// Run resolves every food in foodsText and returns the combined profile.
// Calls are strictly sequential; the first upstream failure ends the run.
func (s *Session) Run(ctx context.Context, foodsText string) (*domain.NutrientProfile, error) {
	if !s.client.Configured() {
		return nil, domain.ErrConfiguration
	}
	foods := SplitFoods(foodsText)
	if len(foods) == 0 {
		return nil, domain.InvalidArgument("foods", "no food names given")
	}

	logger := s.logger.With("session_id", uuid.NewString())
	logger.Info("session started", "foods", len(foods))

	selections := make([]domain.FoodSelection, 0, len(foods))
	for _, food := range foods {
		candidates, err := s.client.SearchFood(ctx, food)
		if err != nil {
			return nil, err
		}

		if len(candidates) == 0 {
			logger.Info("no matches", "food", food)
			if err := s.chooser.NoMatches(ctx, food); err != nil {
				return nil, err
			}
			continue
		}

		sel, err := s.chooser.Choose(ctx, food, candidates)
		if errors.Is(err, ports.ErrSkip) {
			logger.Info("food skipped", "food", food)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("choose %q: %w", food, err)
		}

		logger.Debug("food selected", "food", food, "fdc_id", sel.FDCID, "grams", sel.AmountGrams)
		selections = append(selections, sel)
	}

	if len(selections) == 0 {
		return nil, domain.InvalidArgument("selections", "no foods were selected")
	}

	profile, err := s.client.ComputeProfile(ctx, selections)
	if err != nil {
		return nil, err
	}
	logger.Info("session finished", "selected", len(selections), "nutrients", profile.Len())
	return profile, nil
}
