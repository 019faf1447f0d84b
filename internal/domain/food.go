package domain

import (
	"math"
	"strconv"
	"strings"
)

// DefaultAmountGrams is the serving used when the caller gives no amount.
// Upstream panels are reported for the same 100 g reference serving.
const DefaultAmountGrams = 100.0

// FoodCandidate is one search match, in upstream relevance order.
type FoodCandidate struct {
	DisplayName string
	FDCID       int64
}

// FoodSelection binds a resolved food to the serving eaten.
type FoodSelection struct {
	FDCID       int64
	AmountGrams float64
}

// NutrientEntry is a single row of a nutrient panel, per 100 g.
type NutrientEntry struct {
	Name   string
	Amount float64
	Unit   string
}

// Quota is the latest rate-limit pair reported by the upstream API.
// Values are kept verbatim; an empty string means never observed.
type Quota struct {
	Limit     string
	Remaining string
}

// ParseAmount turns user text into a serving size in grams.
// Blank text yields DefaultAmountGrams.
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultAmountGrams, nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, InvalidArgument("amount", "%q is not a number", text)
	}
	if err := ValidateAmount("amount", value); err != nil {
		return 0, err
	}
	return value, nil
}

// ValidateAmount rejects servings that cannot scale a panel. field names the
// offending input in the returned *InvalidArgumentError.
func ValidateAmount(field string, grams float64) error {
	if math.IsNaN(grams) || math.IsInf(grams, 0) {
		return InvalidArgument(field, "must be a finite number")
	}
	if grams <= 0 {
		return InvalidArgument(field, "must be greater than zero, got %g", grams)
	}
	return nil
}
