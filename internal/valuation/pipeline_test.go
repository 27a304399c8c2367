package valuation

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"valuator/internal/model"
)

func approx(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func villaRequest() *model.StructuredRequest {
	return &model.StructuredRequest{
		Buildings: []model.BuildingSpec{{
			Name:           "Villa 1",
			Category:       model.CategoryHigherVilla,
			NumFloors:      1,
			TotalArea:      300,
			ConfirmedGrade: model.GradeGood,
		}},
		PropertyDetails: model.PropertyDetails{
			PlotArea:  500,
			TownClass: "Finfinne Border A1",
			UseType:   "Residential",
		},
	}
}

func TestRunVilla(t *testing.T) {
	p := testProvider(t)

	result, err := Run(villaRequest(), p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 300 sqm at the Good single-story midpoint 12500, one floor above
	// ground: 300 * 12500 * 2.
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, 7500000)
	// 500 sqm at the 9000 first-tier rate.
	approx(t, "CalculatedLocationValue", result.CalculatedLocationValue, 4500000)
	approx(t, "LocationValueLimit", result.LocationValueLimit, 3*7500000)
	approx(t, "FinalLocationValue", result.FinalLocationValue, 4500000)
	approx(t, "TotalOtherCosts", result.TotalOtherCosts, 0)
	approx(t, "EstimatedMarketValue", result.EstimatedMarketValue, 12000000)
	approx(t, "EstimatedForcedValue", result.EstimatedForcedValue, 9600000)

	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.SuggestedGradeOrder) != 1 {
		t.Fatalf("got %d suggested grades, want 1", len(result.SuggestedGradeOrder))
	}
	// No materials selected: the suggestion defaults to Average even though
	// the confirmed grade priced the building.
	if got := result.SuggestedGrades[result.SuggestedGradeOrder[0]]; got != model.GradeAverage {
		t.Errorf("suggested grade = %q, want Average", got)
	}
}

func TestRunVillaWithBasementAndOtherCosts(t *testing.T) {
	p := testProvider(t)

	req := villaRequest()
	req.Buildings[0].HasBasement = true
	req.OtherCosts = model.OtherCosts{
		FencePercent:         2,
		SepticPercent:        1,
		ExternalWorksPercent: 3,
		WaterTankCost:        50000,
		ConsultancyPercent:   4,
	}
	req.FinancialFactors = model.FinancialFactors{MCF: 1.1, PEF: 0.9}

	result, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	ccw := 7500000 * 1.25
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, ccw)

	otherCosts := ccw*0.06 + 50000
	approx(t, "TotalOtherCosts", result.TotalOtherCosts, otherCosts)

	subTotal := ccw + 4500000 + otherCosts
	market := subTotal * 1.04 * 1.1 * 0.9
	approx(t, "EstimatedMarketValue", result.EstimatedMarketValue, market)
	approx(t, "EstimatedForcedValue", result.EstimatedForcedValue, market*0.8)
}

func TestRunFuelStation(t *testing.T) {
	p := testProvider(t)

	req := &model.StructuredRequest{
		Buildings: []model.BuildingSpec{{
			Name:      "Station",
			Category:  model.CategoryFuelStation,
			NumFloors: 1,
			SpecializedComponents: map[string]float64{
				"num_pump_islands": 4,
				"canopy_area":      320,
			},
		}},
		PropertyDetails: model.PropertyDetails{
			PlotArea:  1000,
			TownClass: "Finfinne Border A1",
			UseType:   "Residential",
		},
	}

	result, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 4 pump islands at 250000 plus 320 sqm of canopy at 12000.
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, 4*250000+320*12000)
	approx(t, "CalculatedLocationValue", result.CalculatedLocationValue, 7650*1000)

	// Specialized buildings have no material grades.
	if len(result.SuggestedGradeOrder) != 0 {
		t.Errorf("unexpected suggested grades: %v", result.SuggestedGradeOrder)
	}
}

func TestRunElevator(t *testing.T) {
	p := testProvider(t)

	req := villaRequest()
	req.SpecialItems = model.SpecialItems{HasElevator: true, ElevatorStops: 4}

	result, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, 7500000+2400000)
}

func TestElevatorCostClosestStops(t *testing.T) {
	p := testProvider(t)

	tests := []struct {
		stops int
		want  float64
	}{
		{4, 2400000},
		{6, 2850000},
		{3, 2400000},
		{12, 4700000},
		{100, 4700000},
	}
	for _, tt := range tests {
		got, err := elevatorCost(p, tt.stops)
		if err != nil {
			t.Fatalf("elevatorCost(%d) error = %v", tt.stops, err)
		}
		if got != tt.want {
			t.Errorf("elevatorCost(%d) = %v, want %v", tt.stops, got, tt.want)
		}
	}
}

func TestRunUnderConstruction(t *testing.T) {
	p := testProvider(t)

	req := villaRequest()
	req.Buildings[0].IsUnderConstruction = true
	req.Buildings[0].IncompleteComponents = []string{"Painting"}

	result, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Painting deducts 7% on the Single_Storey_Best column.
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, 7500000*0.93)
	if len(result.Warnings) != 0 {
		t.Errorf("93%% complete should not warn: %v", result.Warnings)
	}
}

func TestRunUnderConstructionBelowMinimum(t *testing.T) {
	p := testProvider(t)

	req := villaRequest()
	req.Buildings[0].IsUnderConstruction = true
	req.Buildings[0].IncompleteComponents = []string{
		"Foundation", "Concrete Work", "Block Work", "Roofing", "Plastering", "Metal Work",
	}

	result, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Deductions sum to 60%; the Higher Villa policy requires 50% complete.
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, 7500000*0.40)
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(result.Warnings), result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "below the required minimum") {
		t.Errorf("unexpected warning text: %q", result.Warnings[0])
	}
}

func TestRunApartment(t *testing.T) {
	p := testProvider(t)

	req := &model.StructuredRequest{
		Buildings: []model.BuildingSpec{{
			Name:           "Unit 4B",
			Category:       model.CategoryApartment,
			NumFloors:      1,
			TotalArea:      80,
			ConfirmedGrade: model.GradeGood,
		}},
		PropertyDetails: model.PropertyDetails{
			PlotArea:  1000,
			TownClass: "Finfinne Border A1",
			UseType:   "Residential",
		},
		OtherCosts: model.OtherCosts{FencePercent: 5, WaterTankCost: 100000},
	}

	result, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Apartments price on unit area without the floor multiplier; floor 1
	// carries a 2.5% deduction. 80 * 14500 * 0.975.
	ccw := 80 * 14500 * 0.975
	approx(t, "TotalBuildingCost", result.TotalBuildingCost, ccw)

	// Good grade counts 80% of the plot toward location value; 800 sqm
	// stays in the 7650 tier.
	approx(t, "CalculatedLocationValue", result.CalculatedLocationValue, 7650*800)
	approx(t, "LocationValueLimit", result.LocationValueLimit, 3*ccw)
	approx(t, "FinalLocationValue", result.FinalLocationValue, 3*ccw)

	// Other costs never apply to apartment units.
	approx(t, "TotalOtherCosts", result.TotalOtherCosts, 0)
}

func TestApartmentFloorAdjustment(t *testing.T) {
	tests := []struct {
		floor int
		want  float64
	}{
		{0, 1000},
		{1, 975},
		{2, 990},
		{3, 1005},
		{5, 1035},
		{20, 1100}, // premium clamped at 10%
	}
	for _, tt := range tests {
		if got := apartmentFloorAdjustment(1000, tt.floor); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("apartmentFloorAdjustment(1000, %d) = %v, want %v", tt.floor, got, tt.want)
		}
	}
}

func TestBracketFor(t *testing.T) {
	tests := []struct {
		category   string
		floors     int
		rateType   string
		policyType string
	}{
		{model.CategoryHigherVilla, 1, "Single Story Building (higher Villa)", "Higher Villa"},
		{model.CategoryHigherVilla, 5, "Single Story Building (higher Villa)", "Higher Villa"},
		{model.CategoryMultiStory, 1, "G+1 and G+2", "G+1-3"},
		{model.CategoryMultiStory, 3, "G+1 and G+2", "G+1-3"},
		{model.CategoryMultiStory, 4, "G+3 and G+4", "G+4 & above"},
		{model.CategoryMultiStory, 9, "G+3 and G+4", "G+4 & above"},
		{model.CategoryMultiStory, 0, "Single Story Building (higher Villa)", "Higher Villa"},
	}
	for _, tt := range tests {
		rateType, policyType := bracketFor(tt.category, tt.floors)
		if rateType != tt.rateType || policyType != tt.policyType {
			t.Errorf("bracketFor(%q, %d) = (%q, %q), want (%q, %q)",
				tt.category, tt.floors, rateType, policyType, tt.rateType, tt.policyType)
		}
	}
}

func TestDeductionColumn(t *testing.T) {
	tests := []struct {
		buildingType string
		grade        string
		want         string
	}{
		{"Single Story Building (higher Villa)", model.GradeGood, "Single_Storey_Best"},
		{"G+1 and G+2", model.GradeAverage, "G1_G2_Avg"},
		{"G+3 and G+4", model.GradeMinimum, "G3_G4_Poor"},
	}
	for _, tt := range tests {
		if got := deductionColumn(tt.buildingType, tt.grade); got != tt.want {
			t.Errorf("deductionColumn(%q, %q) = %q, want %q", tt.buildingType, tt.grade, got, tt.want)
		}
	}
}

func TestGradeRateFallbacks(t *testing.T) {
	p := testProvider(t)

	// Unknown grade columns fall back to the Average midpoint.
	if got := gradeRate(p, "Single Story Building (higher Villa)", "Platinum"); got != 10000 {
		t.Errorf("gradeRate(unknown grade) = %v, want 10000", got)
	}
	if got := gradeRate(p, "no such bracket", model.GradeGood); got != 0 {
		t.Errorf("gradeRate(unknown type) = %v, want 0", got)
	}
}

func TestRunNoBuildings(t *testing.T) {
	p := testProvider(t)
	if _, err := Run(&model.StructuredRequest{}, p); err == nil {
		t.Fatal("expected error for empty building list")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	p := testProvider(t)

	req := villaRequest()
	req.Buildings[0].ConfirmedGrade = ""
	req.Buildings[0].SelectedMaterials = map[string]string{
		"Foundation": "Stone masonry",
		"Roofing":    "Clay tiles",
		"Floor":      "Ceramic tiles",
	}

	first, err := Run(req, p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Run(req, p)
		if err != nil {
			t.Fatalf("run %d: Run() error = %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: results differ", i)
		}
	}
}
