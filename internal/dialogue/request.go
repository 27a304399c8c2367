package dialogue

import (
	"math"
	"strconv"
	"strings"

	"valuator/internal/model"
	"valuator/internal/rates"
	"valuator/internal/schema"
	"valuator/internal/valuation"
)

// BuildRequest maps the collected slots into a StructuredRequest. The
// mapping is deterministic and total: every coercion failure is reported
// as a ComputationError naming the offending slot, never guessed around.
func BuildRequest(slots map[string]any, provider rates.Provider) (*model.StructuredRequest, error) {
	category, _ := slots[schema.SlotCategory].(string)
	if category == "" {
		return nil, &valuation.ComputationError{Field: schema.SlotCategory, Reason: "building category is required"}
	}

	name, _ := slots[schema.SlotBuildingName].(string)
	if name == "" {
		name = "Building 1"
	}

	building := model.BuildingSpec{
		Name:     name,
		Category: category,
	}

	var err error
	if model.IsSpecializedCategory(category) {
		building.NumFloors = 1
		building.SpecializedComponents, err = specializedComponents(slots, category)
		if err != nil {
			return nil, err
		}
	} else {
		if building.NumFloors, err = intSlot(slots, schema.SlotNumFloors, 1); err != nil {
			return nil, err
		}
		building.HasBasement, _ = schema.BoolSlot(slots, schema.SlotHasBasement)
		building.IsUnderConstruction, _ = schema.BoolSlot(slots, schema.SlotUnderConstruction)
		if building.IsUnderConstruction {
			building.IncompleteComponents, _ = slots[schema.SlotIncompleteComponents].([]string)
		}

		building.SelectedMaterials = map[string]string{}
		for _, c := range provider.MaterialComponents(category) {
			if material, ok := slots[schema.MaterialSlot(c.Component)].(string); ok {
				building.SelectedMaterials[c.Component] = material
			}
		}

		if grade, ok := slots[schema.SlotConfirmedGrade].(string); ok {
			building.ConfirmedGrade = grade
		}

		// Section records fold into the total area; a direct numeric value
		// (e.g. set by the extractor) is accepted in their place.
		if records, ok := slots[schema.SlotSectionDimensions].([]model.SectionRecord); ok {
			building.TotalArea = totalSectionArea(records)
		} else if building.TotalArea, err = floatSlot(slots, schema.SlotSectionDimensions, 0); err != nil {
			return nil, err
		}
	}

	plotArea, err := requiredFloatSlot(slots, schema.SlotPlotArea)
	if err != nil {
		return nil, err
	}

	town, _ := slots[schema.SlotTownClass].(string)
	use, _ := slots[schema.SlotUseType].(string)

	mcf, err := floatSlot(slots, schema.SlotMCF, 1.0)
	if err != nil {
		return nil, err
	}
	pef, err := floatSlot(slots, schema.SlotPEF, 1.0)
	if err != nil {
		return nil, err
	}

	hasElevator, _ := schema.BoolSlot(slots, schema.SlotHasElevator)
	elevatorStops := 0
	if hasElevator {
		if elevatorStops, err = intSlot(slots, schema.SlotElevatorStops, 0); err != nil {
			return nil, err
		}
	}

	otherCosts := model.OtherCosts{}
	for slot, target := range map[string]*float64{
		SlotFencePercent:         &otherCosts.FencePercent,
		SlotSepticPercent:        &otherCosts.SepticPercent,
		SlotExternalWorksPercent: &otherCosts.ExternalWorksPercent,
		SlotWaterTankCost:        &otherCosts.WaterTankCost,
		SlotConsultancyPercent:   &otherCosts.ConsultancyPercent,
	} {
		if *target, err = floatSlot(slots, slot, 0); err != nil {
			return nil, err
		}
	}

	remarks, _ := slots[schema.SlotRemarks].(string)

	return &model.StructuredRequest{
		Buildings:        []model.BuildingSpec{building},
		PropertyDetails:  model.PropertyDetails{PlotArea: plotArea, TownClass: town, UseType: use},
		SpecialItems:     model.SpecialItems{HasElevator: hasElevator, ElevatorStops: elevatorStops},
		OtherCosts:       otherCosts,
		FinancialFactors: model.FinancialFactors{MCF: mcf, PEF: pef},
		Remarks:          remarks,
	}, nil
}

// specializedComponents coerces the numeric component slots of a
// specialized category. Count fields must be whole numbers.
func specializedComponents(slots map[string]any, category string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, f := range schema.SpecializedFields(category) {
		v, err := floatSlot(slots, f.Slot, 0)
		if err != nil {
			return nil, err
		}
		if f.IsCount && v != math.Trunc(v) {
			return nil, &valuation.ComputationError{Field: f.Slot, Reason: "expected a whole number"}
		}
		out[f.Slot] = v
	}
	return out, nil
}

// floatSlot coerces a slot to float64, tolerating both typed values (from
// the extractor) and raw answer text. Missing or empty slots take the
// fallback; unparseable text is a ComputationError.
func floatSlot(slots map[string]any, name string, fallback float64) (float64, error) {
	raw, ok := slots[name]
	if !ok {
		return fallback, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return fallback, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, &valuation.ComputationError{Field: name, Reason: "expected a number, got " + strconv.Quote(v)}
		}
		return parsed, nil
	}
	return 0, &valuation.ComputationError{Field: name, Reason: "unsupported value type"}
}

func requiredFloatSlot(slots map[string]any, name string) (float64, error) {
	if _, ok := slots[name]; !ok {
		return 0, &valuation.ComputationError{Field: name, Reason: "value is missing"}
	}
	return floatSlot(slots, name, 0)
}

// intSlot coerces a slot to int, rejecting fractional values.
func intSlot(slots map[string]any, name string, fallback int) (int, error) {
	v, err := floatSlot(slots, name, float64(fallback))
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &valuation.ComputationError{Field: name, Reason: "expected a whole number"}
	}
	return int(v), nil
}
