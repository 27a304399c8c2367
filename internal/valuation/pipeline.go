// Package valuation turns a fully populated StructuredRequest into a
// deterministic cost breakdown. The pipeline is a pure function of its
// input and the injected rate tables: same snapshot in, same numbers out.
package valuation

import (
	"fmt"
	"math"
	"strings"

	"valuator/internal/model"
	"valuator/internal/rates"
)

const forcedValueRatio = 0.8

// Run values every building, applies elevator cost, location value and
// caps, other costs and financial factors, and returns the full breakdown.
func Run(req *model.StructuredRequest, provider rates.Provider) (*model.ValuationResult, error) {
	if len(req.Buildings) == 0 {
		return nil, &ComputationError{Field: "buildings", Reason: "at least one building is required"}
	}

	result := &model.ValuationResult{
		SuggestedGrades: map[string]string{},
		Warnings:        []string{},
		Remarks:         req.Remarks,
	}

	totalBuildingCost := 0.0
	firstBuildingGrade := ""

	for i, building := range req.Buildings {
		cost, grade, err := valueBuilding(i, &building, provider, result)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			firstBuildingGrade = grade
		}
		totalBuildingCost += cost
	}

	ccw := totalBuildingCost
	if req.SpecialItems.HasElevator {
		elevatorCost, err := elevatorCost(provider, req.SpecialItems.ElevatorStops)
		if err != nil {
			return nil, err
		}
		ccw += elevatorCost
	}
	result.TotalBuildingCost = ccw

	// Apartment plots count only a fraction of their area toward location
	// value, scaled by the resolved grade of the first building.
	plotArea := req.PropertyDetails.PlotArea
	firstIsApartment := req.Buildings[0].Category == model.CategoryApartment
	if firstIsApartment {
		factor := 0.4
		if firstBuildingGrade == model.GradeExcellent || firstBuildingGrade == model.GradeGood {
			factor = 0.8
		}
		plotArea *= factor
	}

	town := req.PropertyDetails.TownClass
	use := req.PropertyDetails.UseType
	plotGrade := SelectPlotGrade(provider, town, use, plotArea)

	result.CalculatedLocationValue = locationValue(provider, town, use, plotGrade, plotArea)
	result.LocationValueLimit = locationValueLimit(ccw, plotArea)
	result.FinalLocationValue = math.Min(result.CalculatedLocationValue, result.LocationValueLimit)

	if firstIsApartment {
		result.TotalOtherCosts = 0
	} else {
		oc := req.OtherCosts
		result.TotalOtherCosts = ccw*(oc.FencePercent/100) +
			ccw*(oc.SepticPercent/100) +
			ccw*(oc.ExternalWorksPercent/100) +
			oc.WaterTankCost
	}

	mcf := req.FinancialFactors.MCF
	if mcf == 0 {
		mcf = 1.0
	}
	pef := req.FinancialFactors.PEF
	if pef == 0 {
		pef = 1.0
	}

	subTotal := ccw + result.FinalLocationValue + result.TotalOtherCosts
	consultancyFee := subTotal * (req.OtherCosts.ConsultancyPercent / 100)
	result.EstimatedMarketValue = (subTotal + consultancyFee) * mcf * pef
	result.EstimatedForcedValue = result.EstimatedMarketValue * forcedValueRatio

	return result, nil
}

// valueBuilding prices one building and returns its cost and resolved
// grade (confirmed or inferred; empty for specialized categories).
func valueBuilding(index int, building *model.BuildingSpec, provider rates.Provider, result *model.ValuationResult) (float64, string, error) {
	category := building.Category

	if model.IsSpecializedCategory(category) {
		cost, err := specializedValue(category, building.SpecializedComponents, provider)
		return cost, "", err
	}

	// Unknown categories fall through to the generic path and pick up the
	// default bracket below.
	numFloors := building.NumFloors
	area := building.TotalArea

	rateType, policyType := bracketFor(category, numFloors)

	suggested := SuggestGrade(building.SelectedMaterials, category, provider)
	label := fmt.Sprintf("Building %d (%s)", index+1, building.Name)
	result.SuggestedGrades[label] = suggested
	result.SuggestedGradeOrder = append(result.SuggestedGradeOrder, label)

	grade := building.ConfirmedGrade
	if grade == "" {
		grade = suggested
	}

	rate := gradeRate(provider, rateType, grade)

	floorMultiplier := float64(numFloors + 1)
	if category == model.CategoryApartment {
		floorMultiplier = 1
	}
	fullReplacementCost := area * rate * floorMultiplier

	if building.HasBasement {
		fullReplacementCost *= 1.25
	}

	cost := fullReplacementCost
	if building.IsUnderConstruction {
		completed, completedPercent := underConstructionValue(fullReplacementCost, rateType, grade, building.IncompleteComponents, provider)
		cost = completed
		minCompletion := provider.MinimumCompletion(policyType)
		if completedPercent < minCompletion {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Warning: Building '%s' is only %.0f%% complete, which is below the required minimum of %.0f%% for a loan.",
				building.Name, completedPercent*100, minCompletion*100))
		}
	}

	if category == model.CategoryApartment {
		cost = apartmentFloorAdjustment(cost, numFloors)
	}

	return cost, grade, nil
}

// bracketFor selects the rate-table building type and the completion
// policy type for a generic category and floor count. Higher Villa always
// prices on the single-story bracket; anything that matches no bracket
// (including unknown categories and zero floors) defaults the same way.
func bracketFor(category string, numFloors int) (rateType, policyType string) {
	switch {
	case category == model.CategoryHigherVilla:
		return "Single Story Building (higher Villa)", "Higher Villa"
	case numFloors >= 1 && numFloors <= 3:
		return "G+1 and G+2", "G+1-3"
	case numFloors >= 4:
		return "G+3 and G+4", "G+4 & above"
	}
	return "Single Story Building (higher Villa)", "Higher Villa"
}

// gradeRate returns the midpoint rate for a building type and grade,
// falling back to the Average column when the grade column is absent and
// to 0 when the building type is unknown.
func gradeRate(provider rates.Provider, buildingType, grade string) float64 {
	br, ok := provider.BuildingRate(buildingType)
	if !ok {
		return 0
	}
	if r, ok := br.Grades[grade]; ok {
		return r.Midpoint()
	}
	if r, ok := br.Grades[model.GradeAverage]; ok {
		return r.Midpoint()
	}
	return 0
}

// underConstructionValue deducts the percentages of the incomplete
// components from the full replacement cost. Components missing from the
// deduction table contribute nothing.
func underConstructionValue(fullValue float64, buildingType, grade string, incomplete []string, provider rates.Provider) (value, completedPercent float64) {
	column := deductionColumn(buildingType, grade)

	totalDeduction := 0.0
	for _, component := range incomplete {
		if d, ok := provider.ComponentDeduction(component, column); ok {
			totalDeduction += d
		}
	}

	completedPercent = 1.0 - totalDeduction
	return fullValue * completedPercent, completedPercent
}

// deductionColumn builds the bracket_gradeBucket column key of the
// deduction table.
func deductionColumn(buildingType, grade string) string {
	typeKey := "G1_G2"
	switch {
	case strings.Contains(buildingType, "Single Story"):
		typeKey = "Single_Storey"
	case strings.Contains(buildingType, "G+1"), strings.Contains(buildingType, "G+2"):
		typeKey = "G1_G2"
	case strings.Contains(buildingType, "G+3"), strings.Contains(buildingType, "G+4"):
		typeKey = "G3_G4"
	}
	return typeKey + "_" + gradeBucket(grade)
}

// apartmentFloorAdjustment applies the apartment floor deduction: 0.025 at
// floor 1, decreasing by 0.015 per floor above 1. The deduction goes
// negative (a premium) for upper floors and is clamped so the relative
// change never exceeds -0.10.
func apartmentFloorAdjustment(baseCost float64, floorNumber int) float64 {
	deduction := 0.0
	switch {
	case floorNumber == 1:
		deduction = 0.025
	case floorNumber > 1:
		deduction = 0.025 - 0.015*float64(floorNumber-1)
	}
	finalDeduction := math.Max(-0.10, deduction)
	return baseCost * (1 - finalDeduction)
}

// elevatorCost selects the elevator table entry whose stop count is
// closest by absolute difference. The capacity dimension does not
// participate in selection.
func elevatorCost(provider rates.Provider, stops int) (float64, error) {
	entries := provider.ElevatorRates()
	if len(entries) == 0 {
		return 0, &ComputationError{Field: "elevator_stops", Reason: "elevator rate table is empty"}
	}

	best := entries[0]
	bestDiff := abs(best.Stops - stops)
	for _, e := range entries[1:] {
		if d := abs(e.Stops - stops); d < bestDiff {
			best = e
			bestDiff = d
		}
	}
	return best.Cost, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
