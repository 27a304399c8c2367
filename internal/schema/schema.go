// Package schema derives the ordered required-slot list for a building
// category. The list is recomputed on every call from the current slots,
// so a category change mid-session changes the required set immediately.
package schema

import (
	"strings"

	"valuator/internal/model"
	"valuator/internal/rates"
)

// Slot names shared across the dialogue and request mapping.
const (
	SlotBuildingName         = "building_name"
	SlotCategory             = "building_category"
	SlotNumFloors            = "num_floors"
	SlotHasBasement          = "has_basement"
	SlotHasElevator          = "has_elevator"
	SlotElevatorStops        = "elevator_stops"
	SlotUnderConstruction    = "is_under_construction"
	SlotIncompleteComponents = "incomplete_components"
	SlotNumSections          = "num_sections"
	SlotSectionDimensions    = "section_dimensions"
	SlotPlotArea             = "plot_area_sqm"
	SlotTownClass            = "prop_town"
	SlotUseType              = "gen_use"
	SlotMCF                  = "mcf"
	SlotPEF                  = "pef"

	// Optional slots, filled by the extractor collaborator only.
	SlotConfirmedGrade = "confirmed_grade"
	SlotRemarks        = "remarks"
)

// MaterialSlot returns the slot name holding the selected material of one
// building component, e.g. "Metal Work" -> "material_metal_work".
func MaterialSlot(component string) string {
	return "material_" + strings.ReplaceAll(strings.ToLower(component), " ", "_")
}

// SpecializedField is one numeric component question of a specialized
// category. RateKey is the unit-rate name in the category's rate table.
type SpecializedField struct {
	Slot    string
	RateKey string
	IsCount bool
}

var specializedFields = map[string][]SpecializedField{
	model.CategoryFuelStation: {
		{Slot: "site_preparation_area", RateKey: "site_preparation"},
		{Slot: "forecourt_area", RateKey: "reinforced_concrete_forecourt"},
		{Slot: "canopy_area", RateKey: "steel_canopy"},
		{Slot: "num_pump_islands", RateKey: "pump_island", IsCount: true},
		{Slot: "num_ugt_30m3", RateKey: "ugt_30m3", IsCount: true},
		{Slot: "num_ugt_50m3", RateKey: "ugt_50m3", IsCount: true},
	},
	model.CategoryCoffeeSite: {
		{Slot: "cherry_hopper_area", RateKey: "cherry_hopper"},
		{Slot: "fermentation_tanks_area", RateKey: "fermentation_tanks"},
		{Slot: "washing_channels_length", RateKey: "washing_channels"},
		{Slot: "coffee_drier_area", RateKey: "coffee_drier"},
	},
	model.CategoryGreenHouse: {
		{Slot: "greenhouse_area", RateKey: "greenhouse_cover"},
		{Slot: "in_farm_road_km", RateKey: "in_farm_road"},
		{Slot: "borehole_depth", RateKey: "borehole"},
		{Slot: "land_preparation_area", RateKey: "land_preparation"},
	},
}

// SpecializedFields returns the ordered numeric component fields of a
// specialized category, nil otherwise.
func SpecializedFields(category string) []SpecializedField {
	return specializedFields[category]
}

// IsCountSlot reports whether a slot is semantically a count and must
// coerce to an integer.
func IsCountSlot(name string) bool {
	switch name {
	case SlotNumFloors, SlotElevatorStops, SlotNumSections:
		return true
	}
	for _, fields := range specializedFields {
		for _, f := range fields {
			if f.Slot == name && f.IsCount {
				return true
			}
		}
	}
	return false
}

// BoolSlot reads a slot as a bound boolean. ok is false when the slot is
// missing or not boolean.
func BoolSlot(slots map[string]any, name string) (value, ok bool) {
	v, present := slots[name]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// RequiredSlots returns the ordered, de-duplicated required slot names for
// the current category and slots. The category is read fresh from slots on
// every call; no caching across turns.
func RequiredSlots(slots map[string]any, provider rates.Provider) []string {
	category, _ := slots[SlotCategory].(string)

	var required []string
	switch {
	case model.IsSpecializedCategory(category):
		required = append(required, SlotBuildingName, SlotCategory)
		for _, f := range SpecializedFields(category) {
			required = append(required, f.Slot)
		}
		required = append(required, SlotPlotArea, SlotTownClass, SlotUseType, SlotMCF, SlotPEF)

	case model.IsGenericCategory(category):
		required = append(required, SlotBuildingName, SlotCategory)
		if model.VariesByFloorBracket(category) {
			required = append(required, SlotNumFloors)
		}
		required = append(required,
			SlotHasBasement,
			SlotHasElevator,
			SlotElevatorStops,
			SlotUnderConstruction,
			SlotIncompleteComponents,
			SlotNumSections,
			SlotSectionDimensions,
		)
		for _, c := range provider.MaterialComponents(category) {
			required = append(required, MaterialSlot(c.Component))
		}
		required = append(required, SlotPlotArea, SlotTownClass, SlotUseType, SlotMCF, SlotPEF)

	default:
		// Category not yet known (or unrecognized): only the identifying
		// questions make sense so far.
		required = append(required, SlotBuildingName, SlotCategory)
	}

	// Suppression rules, applied after the raw list is built.
	if hasElevator, ok := BoolSlot(slots, SlotHasElevator); ok && !hasElevator {
		required = remove(required, SlotElevatorStops)
	}
	if underConstruction, ok := BoolSlot(slots, SlotUnderConstruction); ok && !underConstruction {
		required = remove(required, SlotIncompleteComponents)
	}

	return dedupe(required)
}

// Missing returns the required slots that have no answer yet, in schema
// order.
func Missing(slots map[string]any, provider rates.Provider) []string {
	var missing []string
	for _, name := range RequiredSlots(slots, provider) {
		if _, ok := slots[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func remove(names []string, target string) []string {
	out := names[:0]
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
