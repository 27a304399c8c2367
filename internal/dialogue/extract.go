package dialogue

import (
	"strings"

	"valuator/internal/model"
	"valuator/internal/schema"
)

// Slots the NLU collaborator may fill beyond the asked questions.
const (
	SlotFencePercent         = "fence_percent"
	SlotSepticPercent        = "septic_percent"
	SlotExternalWorksPercent = "external_works_percent"
	SlotWaterTankCost        = "water_tank_cost"
	SlotConsultancyPercent   = "consultancy_percent"
)

var extractableBase = map[string]struct{}{
	schema.SlotBuildingName:      {},
	schema.SlotNumFloors:         {},
	schema.SlotHasBasement:       {},
	schema.SlotHasElevator:       {},
	schema.SlotElevatorStops:     {},
	schema.SlotUnderConstruction: {},
	schema.SlotNumSections:       {},
	schema.SlotPlotArea:          {},
	schema.SlotTownClass:         {},
	schema.SlotUseType:           {},
	schema.SlotMCF:               {},
	schema.SlotPEF:               {},
	schema.SlotConfirmedGrade:    {},
	schema.SlotRemarks:           {},
	SlotFencePercent:             {},
	SlotSepticPercent:            {},
	SlotExternalWorksPercent:     {},
	SlotWaterTankCost:            {},
	SlotConsultancyPercent:       {},
}

// extractableSlot reports whether the NLU collaborator is allowed to fill
// a slot name under the current category.
func extractableSlot(name, category string) bool {
	if _, ok := extractableBase[name]; ok {
		return true
	}
	if strings.HasPrefix(name, "material_") {
		return true
	}
	for _, f := range schema.SpecializedFields(category) {
		if f.Slot == name {
			return true
		}
	}
	return false
}

// validExtractedValue checks the value kind (and enum membership where the
// slot is closed-vocabulary) before a merge. Anything suspect is skipped
// rather than rejected loudly; extraction is best-effort.
func validExtractedValue(name string, value any) bool {
	switch name {
	case schema.SlotTownClass:
		s, ok := value.(string)
		return ok && contains(model.ValidTownClasses, s)
	case schema.SlotUseType:
		s, ok := value.(string)
		return ok && contains(model.ValidUseTypes, s)
	case schema.SlotConfirmedGrade:
		s, ok := value.(string)
		return ok && contains(model.ValidGrades, s)
	case schema.SlotHasBasement, schema.SlotHasElevator, schema.SlotUnderConstruction:
		_, ok := value.(bool)
		return ok
	case schema.SlotBuildingName, schema.SlotRemarks:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	}

	if strings.HasPrefix(name, "material_") {
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	}

	// Remaining extractable slots are numeric.
	switch v := value.(type) {
	case float64:
		return v >= 0
	}
	return false
}
