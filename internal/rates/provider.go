package rates

// Provider supplies the immutable lookup tables the schema and the
// valuation pipeline depend on. A provider is constructed once at startup
// and injected; implementations must be safe for concurrent reads and
// must never be mutated after construction.
type Provider interface {
	// BuildingRate returns the rate ranges per grade for a building type.
	BuildingRate(buildingType string) (BuildingRate, bool)

	// MaterialComponents returns the ordered component list (with their
	// selectable material options) for a category. Empty for categories
	// without material questions.
	MaterialComponents(category string) []ComponentMaterials

	// MaterialGradeMapping returns, per component, the ordered
	// substring -> grade pairs used for grade inference.
	MaterialGradeMapping(category string) []ComponentGrades

	// ComponentDeduction returns the deduction fraction for an incomplete
	// component under a bracket_gradeBucket column.
	ComponentDeduction(component, column string) (float64, bool)

	// DeductionComponents returns the component names of the deduction
	// table in table order, used for the incomplete-components menu.
	DeductionComponents() []string

	// MinimumCompletion returns the minimum completed fraction policy for
	// a bracket policy type; 0 when the type is unknown.
	MinimumCompletion(policyType string) float64

	// LocationTiers returns the area-tiered rates for a town/use/grade
	// path. ok is false when the path is absent entirely.
	LocationTiers(town, use, grade string) ([]LocationTier, bool)

	// ElevatorRates returns the elevator cost table.
	ElevatorRates() []ElevatorRate

	// SpecializedRates returns the per-unit rates of a specialized
	// category, keyed by component rate name. Nil for other categories.
	SpecializedRates(category string) map[string]float64
}

// RateRange is a min/max construction rate per square meter.
type RateRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the applied rate for a range.
func (r RateRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// BuildingRate holds the per-grade rate ranges of one building type.
type BuildingRate struct {
	BuildingType string               `json:"building_type"`
	Grades       map[string]RateRange `json:"grades"`
}

// ComponentMaterials lists the selectable materials of one building
// component, in menu order.
type ComponentMaterials struct {
	Component string   `json:"component"`
	Options   []string `json:"options"`
}

// MaterialGrade maps a material-name substring to a quality grade.
// Pairs are matched in order; the first substring hit wins.
type MaterialGrade struct {
	Material string `json:"material"`
	Grade    string `json:"grade"`
}

// ComponentGrades holds the ordered substring->grade pairs of one
// component.
type ComponentGrades struct {
	Component string          `json:"component"`
	Grades    []MaterialGrade `json:"grades"`
}

// LocationTier is one area bracket of a location value table. A nil
// MaxArea means the bracket is unbounded above.
type LocationTier struct {
	MinArea float64  `json:"min_area"`
	MaxArea *float64 `json:"max_area"`
	Rate    float64  `json:"rate"`
}

// Matches reports whether a plot area falls in this tier (bounds
// inclusive).
func (t LocationTier) Matches(area float64) bool {
	if area < t.MinArea {
		return false
	}
	return t.MaxArea == nil || area <= *t.MaxArea
}

// ElevatorRate is one elevator cost entry keyed by capacity and stops.
type ElevatorRate struct {
	CapacityKg int     `json:"capacity_kg"`
	Stops      int     `json:"stops"`
	Cost       float64 `json:"cost"`
}
