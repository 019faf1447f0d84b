package usecase

import (
	"fmt"

	"macromanager/internal/domain"
)

// Aggregate merges nutrient panels into one profile. panels[i] is reported per
// 100 g and is scaled by amounts[i]/100 grams before being summed by nutrient name.
// The first unit seen for a nutrient is authoritative; any other unit for the same
// name fails with *domain.UnitMismatchError.
func Aggregate(panels [][]domain.NutrientEntry, amounts []float64) (*domain.NutrientProfile, error) {
	if len(panels) != len(amounts) {
		return nil, domain.InvalidArgument("amounts", "got %d amounts for %d panels", len(amounts), len(panels))
	}
	for i, amount := range amounts {
		if err := domain.ValidateAmount(fmt.Sprintf("amounts[%d]", i), amount); err != nil {
			return nil, err
		}
	}

	profile := domain.NewNutrientProfile()
	for i, panel := range panels {
		factor := amounts[i] / domain.DefaultAmountGrams
		for _, entry := range panel {
			if err := profile.Add(entry.Name, entry.Amount*factor, entry.Unit); err != nil {
				return nil, err
			}
		}
	}
	return profile, nil
}
