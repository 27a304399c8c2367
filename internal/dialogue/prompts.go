package dialogue

import (
	"fmt"
	"strings"

	"valuator/internal/model"
	"valuator/internal/schema"
)

// freeTextQuestions holds the prompt (with an example hint) for every
// free-text slot.
var freeTextQuestions = map[string]string{
	schema.SlotBuildingName:  "What is the building name or identifier (e.g., 'Block A' or 'Villa 1')?",
	schema.SlotNumFloors:     "How many floors does the building have (e.g., 1 for single storey, 3 for G+2)?",
	schema.SlotElevatorStops: "How many stops does the elevator have? (e.g., 2, 4, 6)",
	schema.SlotNumSections:   "How many sections does the building footprint have? Reply 1 if it is a single rectangle.",
	schema.SlotPlotArea:      "What is the plot area in square meters?",
	schema.SlotMCF:           "Market Condition Factor (MCF)? If unsure, reply 1.0",
	schema.SlotPEF:           "Property Enhancement Factor (PEF)? If unsure, reply 1.0",

	// Specialized category components. Quantities of absent components are
	// answered with 0.
	"site_preparation_area":   "What is the site preparation area in square meters? Reply 0 if none.",
	"forecourt_area":          "What is the reinforced concrete forecourt area in square meters? Reply 0 if none.",
	"canopy_area":             "What is the steel canopy area in square meters? Reply 0 if none.",
	"num_pump_islands":        "How many pump islands are there? Reply 0 if none.",
	"num_ugt_30m3":            "How many 30m3 underground tanks are there? Reply 0 if none.",
	"num_ugt_50m3":            "How many 50m3 underground tanks are there? Reply 0 if none.",
	"cherry_hopper_area":      "What is the cherry hopper area in square meters? Reply 0 if none.",
	"fermentation_tanks_area": "What is the fermentation tanks area in square meters? Reply 0 if none.",
	"washing_channels_length": "What is the washing channels length in meters? Reply 0 if none.",
	"coffee_drier_area":       "What is the coffee drier area in square meters? Reply 0 if none.",
	"greenhouse_area":         "What is the greenhouse cover area in square meters? Reply 0 if none.",
	"in_farm_road_km":         "How many kilometers of in-farm road are there? Reply 0 if none.",
	"borehole_depth":          "What is the borehole depth in meters? Reply 0 if none.",
	"land_preparation_area":   "What is the land preparation area in square meters? Reply 0 if none.",
}

var boolQuestions = map[string]string{
	schema.SlotHasBasement:       "Does the building have a basement? (yes/no)",
	schema.SlotHasElevator:       "Is there an elevator? (yes/no)",
	schema.SlotUnderConstruction: "Is the building still under construction? (yes/no)",
}

// renderQuestion produces the question for one slot, recording a pending
// choice when the slot is closed-vocabulary.
func (m *Machine) renderQuestion(s *model.SessionState, slot string) string {
	if q, ok := boolQuestions[slot]; ok {
		return q
	}

	switch slot {
	case schema.SlotCategory:
		return m.choiceQuestion(s, slot, "building category", model.ValidCategories)
	case schema.SlotTownClass:
		return m.choiceQuestion(s, slot, "town classification", model.ValidTownClasses)
	case schema.SlotUseType:
		return m.choiceQuestion(s, slot, "general use type", model.ValidUseTypes)
	case schema.SlotIncompleteComponents:
		options := m.provider.DeductionComponents()
		s.Pending = &model.PendingChoice{SlotName: slot, Options: options, Multi: true}
		return "Which components are still incomplete? Reply with the numbers, separated by commas.\n" + renderMenu(options)
	}

	if strings.HasPrefix(slot, "material_") {
		category, _ := s.Slots[schema.SlotCategory].(string)
		for _, c := range m.provider.MaterialComponents(category) {
			if schema.MaterialSlot(c.Component) == slot {
				return m.choiceQuestion(s, slot, c.Component+" material", c.Options)
			}
		}
	}

	if q, ok := freeTextQuestions[slot]; ok {
		return q
	}
	return fmt.Sprintf("Please provide the value for: %s", strings.ReplaceAll(slot, "_", " "))
}

// choiceQuestion renders a numbered menu and arms the pending choice.
func (m *Machine) choiceQuestion(s *model.SessionState, slot, label string, options []string) string {
	s.Pending = &model.PendingChoice{SlotName: slot, Options: options}
	return fmt.Sprintf("Please select %s from the following options:\n%s", label, renderMenu(options))
}

func renderMenu(options []string) string {
	var b strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSummary produces the confirmation summary of everything collected.
func (m *Machine) renderSummary(s *model.SessionState) string {
	category, _ := s.Slots[schema.SlotCategory].(string)

	var b strings.Builder
	b.WriteString("Here is what I have collected:\n")

	line := func(label string, slot string) {
		if v, ok := s.Slots[slot]; ok {
			fmt.Fprintf(&b, "- %s: %s", label, formatSlotValue(v))
			b.WriteByte('\n')
		}
	}

	line("Building name", schema.SlotBuildingName)
	line("Category", schema.SlotCategory)

	if model.IsSpecializedCategory(category) {
		for _, f := range schema.SpecializedFields(category) {
			line(strings.ReplaceAll(f.Slot, "_", " "), f.Slot)
		}
	} else {
		line("Floors", schema.SlotNumFloors)
		line("Basement", schema.SlotHasBasement)
		line("Elevator", schema.SlotHasElevator)
		line("Elevator stops", schema.SlotElevatorStops)
		line("Under construction", schema.SlotUnderConstruction)
		line("Incomplete components", schema.SlotIncompleteComponents)

		if records, ok := s.Slots[schema.SlotSectionDimensions].([]model.SectionRecord); ok {
			fmt.Fprintf(&b, "- Sections: %s (total area %.2f sqm)\n", formatSections(records), totalSectionArea(records))
		}
		for _, c := range m.provider.MaterialComponents(category) {
			line(c.Component+" material", schema.MaterialSlot(c.Component))
		}
	}

	line("Plot area (sqm)", schema.SlotPlotArea)
	line("Town classification", schema.SlotTownClass)
	line("General use", schema.SlotUseType)
	line("MCF", schema.SlotMCF)
	line("PEF", schema.SlotPEF)

	b.WriteString("\nShall I proceed with the valuation? (yes/no)")
	return b.String()
}

func formatSlotValue(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return "yes"
		}
		return "no"
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%g", value)
	case []string:
		return strings.Join(value, ", ")
	case string:
		return value
	}
	return fmt.Sprintf("%v", v)
}

func formatSections(records []model.SectionRecord) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		if r.Area > 0 {
			parts = append(parts, fmt.Sprintf("%.2f sqm", r.Area))
		} else {
			parts = append(parts, fmt.Sprintf("%.2fm x %.2fm", r.Length, r.Width))
		}
	}
	return strings.Join(parts, "; ")
}
