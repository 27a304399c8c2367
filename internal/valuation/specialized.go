package valuation

import (
	"valuator/internal/rates"
	"valuator/internal/schema"
)

// specializedValue prices a specialized category as the sum of component
// quantity x fixed unit rate over the category's field set. No grade or
// material logic applies.
func specializedValue(category string, components map[string]float64, provider rates.Provider) (float64, error) {
	unitRates := provider.SpecializedRates(category)
	if unitRates == nil {
		return 0, &ComputationError{Field: category, Reason: "no unit rate table for category"}
	}

	total := 0.0
	for _, field := range schema.SpecializedFields(category) {
		rate, ok := unitRates[field.RateKey]
		if !ok {
			return 0, &ComputationError{Field: field.RateKey, Reason: "unit rate missing from table"}
		}
		total += components[field.Slot] * rate
	}
	return total, nil
}
