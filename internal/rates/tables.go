package rates

import (
	"encoding/json"
	"fmt"

	"valuator/internal/model"
)

// materialFamily holds one category family's components: the material
// menus shown to the user and the substring->grade mapping used for
// inference.
type materialFamily struct {
	Components []struct {
		Component string          `json:"component"`
		Options   []string        `json:"options"`
		Grades    []MaterialGrade `json:"grades"`
	} `json:"components"`
}

// componentDeduction is one row of the under-construction deduction table:
// a building component and its deduction fraction per bracket_gradeBucket
// column.
type componentDeduction struct {
	Component string             `json:"component"`
	Columns   map[string]float64 `json:"columns"`
}

// Tables is the in-memory snapshot of every rate table. It implements
// Provider. Instances are read-only after load.
type Tables struct {
	buildingRates     []BuildingRate
	materialFamilies  map[string]materialFamily
	deductions        []componentDeduction
	minimumCompletion map[string]float64
	locations         map[string]map[string]map[string][]LocationTier
	elevatorRates     []ElevatorRate
	specializedRates  map[string]map[string]float64
}

// tableFiles maps the logical table name to its raw JSON payload,
// regardless of whether it came from the embedded files or the database.
type tableFiles map[string][]byte

func newTables(files tableFiles) (*Tables, error) {
	t := &Tables{
		materialFamilies: map[string]materialFamily{},
		specializedRates: map[string]map[string]float64{},
	}

	decode := func(name string, target any) error {
		raw, ok := files[name]
		if !ok {
			return fmt.Errorf("rate table %q is missing", name)
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("failed to decode rate table %q: %w", name, err)
		}
		return nil
	}

	if err := decode("building_rates", &t.buildingRates); err != nil {
		return nil, err
	}
	if err := decode("material_mappings", &t.materialFamilies); err != nil {
		return nil, err
	}
	if err := decode("component_percentages", &t.deductions); err != nil {
		return nil, err
	}
	if err := decode("minimum_completion_stages", &t.minimumCompletion); err != nil {
		return nil, err
	}
	if err := decode("location_data", &t.locations); err != nil {
		return nil, err
	}
	if err := decode("elevator_rates", &t.elevatorRates); err != nil {
		return nil, err
	}

	specialized := map[string]string{
		model.CategoryFuelStation: "fuel_station_rates",
		model.CategoryCoffeeSite:  "coffee_site_rates",
		model.CategoryGreenHouse:  "green_house_rates",
	}
	for category, name := range specialized {
		rates := map[string]float64{}
		if err := decode(name, &rates); err != nil {
			return nil, err
		}
		t.specializedRates[category] = rates
	}

	return t, nil
}

// materialFamilyFor resolves the category to its material family name.
// Grounding: the villa/multi-story/apartment categories share one family,
// MPH & factory has its own.
func materialFamilyFor(category string) string {
	switch category {
	case model.CategoryHigherVilla, model.CategoryMultiStory, model.CategoryApartment:
		return "villa_and_multi_story"
	case model.CategoryMPHFactory:
		return "mph_factory"
	}
	return ""
}

// BuildingRate implements Provider.
func (t *Tables) BuildingRate(buildingType string) (BuildingRate, bool) {
	for _, br := range t.buildingRates {
		if br.BuildingType == buildingType {
			return br, true
		}
	}
	return BuildingRate{}, false
}

// MaterialComponents implements Provider.
func (t *Tables) MaterialComponents(category string) []ComponentMaterials {
	family, ok := t.materialFamilies[materialFamilyFor(category)]
	if !ok {
		return nil
	}
	out := make([]ComponentMaterials, 0, len(family.Components))
	for _, c := range family.Components {
		out = append(out, ComponentMaterials{Component: c.Component, Options: c.Options})
	}
	return out
}

// MaterialGradeMapping implements Provider.
func (t *Tables) MaterialGradeMapping(category string) []ComponentGrades {
	family, ok := t.materialFamilies[materialFamilyFor(category)]
	if !ok {
		return nil
	}
	out := make([]ComponentGrades, 0, len(family.Components))
	for _, c := range family.Components {
		out = append(out, ComponentGrades{Component: c.Component, Grades: c.Grades})
	}
	return out
}

// ComponentDeduction implements Provider.
func (t *Tables) ComponentDeduction(component, column string) (float64, bool) {
	for _, d := range t.deductions {
		if d.Component == component {
			v, ok := d.Columns[column]
			return v, ok
		}
	}
	return 0, false
}

// DeductionComponents returns the component names of the deduction table,
// in table order. Used to build the incomplete-components menu.
func (t *Tables) DeductionComponents() []string {
	out := make([]string, 0, len(t.deductions))
	for _, d := range t.deductions {
		out = append(out, d.Component)
	}
	return out
}

// MinimumCompletion implements Provider.
func (t *Tables) MinimumCompletion(policyType string) float64 {
	return t.minimumCompletion[policyType]
}

// LocationTiers implements Provider.
func (t *Tables) LocationTiers(town, use, grade string) ([]LocationTier, bool) {
	tiers, ok := t.locations[town][use][grade]
	if !ok || len(tiers) == 0 {
		return nil, false
	}
	return tiers, true
}

// ElevatorRates implements Provider.
func (t *Tables) ElevatorRates() []ElevatorRate {
	return t.elevatorRates
}

// SpecializedRates implements Provider.
func (t *Tables) SpecializedRates(category string) map[string]float64 {
	return t.specializedRates[category]
}
