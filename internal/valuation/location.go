package valuation

import (
	"valuator/internal/model"
	"valuator/internal/rates"
)

// fallbackLocationRate applies when a town/use/grade path is entirely
// absent from the location tables.
const fallbackLocationRate = 3000

// SelectPlotGrade picks the plot grade for the location lookup. Plot grade
// is never asked from the user: the first grade in canonical order whose
// tier table covers the plot area wins. When the town/use path has no
// covering grade the 1st grade is returned and the location value falls
// back to the flat rate.
func SelectPlotGrade(provider rates.Provider, town, use string, plotArea float64) string {
	for _, grade := range model.ValidPlotGrades {
		tiers, ok := provider.LocationTiers(town, use, grade)
		if !ok {
			continue
		}
		for _, tier := range tiers {
			if tier.Matches(plotArea) {
				return grade
			}
		}
	}
	return model.ValidPlotGrades[0]
}

// locationValue looks up the tiered rate for a town/use/grade path and
// multiplies it by the plot area. An absent path falls back to the flat
// rate; a present path with no matching tier values the location at 0.
func locationValue(provider rates.Provider, town, use, plotGrade string, plotArea float64) float64 {
	tiers, ok := provider.LocationTiers(town, use, plotGrade)
	if !ok {
		return fallbackLocationRate * plotArea
	}

	for _, tier := range tiers {
		if tier.Matches(plotArea) {
			return tier.Rate * plotArea
		}
	}
	return 0
}

// locationValueLimit caps the location value relative to the aggregate
// construction cost: 3x up to 2000 sqm, linearly interpolated down to 1x
// at 10000 sqm, 1x above that.
func locationValueLimit(ccw, plotArea float64) float64 {
	if ccw == 0 {
		return 0
	}
	switch {
	case plotArea <= 2000:
		return 3.0 * ccw
	case plotArea <= 10000:
		return (3.5 * ccw) - (ccw * plotArea / 4000)
	}
	return ccw
}
