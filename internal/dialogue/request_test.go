package dialogue

import (
	"errors"
	"testing"

	"valuator/internal/model"
	"valuator/internal/rates"
	"valuator/internal/schema"
	"valuator/internal/valuation"
)

func requestProvider(t *testing.T) rates.Provider {
	t.Helper()
	p, err := rates.NewStaticProvider()
	if err != nil {
		t.Fatalf("NewStaticProvider() error = %v", err)
	}
	return p
}

func villaSlots() map[string]any {
	return map[string]any{
		schema.SlotBuildingName:      "Villa A",
		schema.SlotCategory:          model.CategoryHigherVilla,
		schema.SlotHasBasement:       true,
		schema.SlotHasElevator:       false,
		schema.SlotUnderConstruction: false,
		schema.SlotSectionDimensions: []model.SectionRecord{{Length: 10, Width: 8}},
		"material_foundation":        "Stone masonry",
		schema.SlotPlotArea:          "500",
		schema.SlotTownClass:         "Finfinne Border A1",
		schema.SlotUseType:           "Residential",
		schema.SlotMCF:               "1.1",
		schema.SlotPEF:               "0.9",
	}
}

func TestBuildRequestVilla(t *testing.T) {
	p := requestProvider(t)

	req, err := BuildRequest(villaSlots(), p)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	b := req.Buildings[0]
	if b.Name != "Villa A" || b.Category != model.CategoryHigherVilla {
		t.Errorf("building identity = %+v", b)
	}
	if b.NumFloors != 1 {
		t.Errorf("NumFloors = %d, want default 1", b.NumFloors)
	}
	if !b.HasBasement || b.IsUnderConstruction {
		t.Errorf("flags = basement %v, under construction %v", b.HasBasement, b.IsUnderConstruction)
	}
	if b.TotalArea != 80 {
		t.Errorf("TotalArea = %v, want 80 from section records", b.TotalArea)
	}
	if b.SelectedMaterials["Foundation"] != "Stone masonry" {
		t.Errorf("materials = %v", b.SelectedMaterials)
	}
	if req.PropertyDetails.PlotArea != 500 {
		t.Errorf("PlotArea = %v, want 500", req.PropertyDetails.PlotArea)
	}
	if req.FinancialFactors.MCF != 1.1 || req.FinancialFactors.PEF != 0.9 {
		t.Errorf("financial factors = %+v", req.FinancialFactors)
	}
	if req.SpecialItems.HasElevator || req.SpecialItems.ElevatorStops != 0 {
		t.Errorf("special items = %+v", req.SpecialItems)
	}
}

func TestBuildRequestElevatorStopsOnlyWhenPresent(t *testing.T) {
	p := requestProvider(t)

	slots := villaSlots()
	slots[schema.SlotHasElevator] = true
	slots[schema.SlotElevatorStops] = "6"

	req, err := BuildRequest(slots, p)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if !req.SpecialItems.HasElevator || req.SpecialItems.ElevatorStops != 6 {
		t.Errorf("special items = %+v", req.SpecialItems)
	}
}

func TestBuildRequestIncompleteComponentsRequireFlag(t *testing.T) {
	p := requestProvider(t)

	slots := villaSlots()
	slots[schema.SlotIncompleteComponents] = []string{"Painting"}

	req, err := BuildRequest(slots, p)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	// Not under construction: the component list is ignored.
	if len(req.Buildings[0].IncompleteComponents) != 0 {
		t.Errorf("IncompleteComponents = %v, want empty", req.Buildings[0].IncompleteComponents)
	}

	slots[schema.SlotUnderConstruction] = true
	req, err = BuildRequest(slots, p)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if len(req.Buildings[0].IncompleteComponents) != 1 {
		t.Errorf("IncompleteComponents = %v, want [Painting]", req.Buildings[0].IncompleteComponents)
	}
}

func TestBuildRequestFuelStation(t *testing.T) {
	p := requestProvider(t)

	slots := map[string]any{
		schema.SlotCategory:     model.CategoryFuelStation,
		"site_preparation_area": "120",
		"num_pump_islands":      "4",
		schema.SlotPlotArea:     "1000",
		schema.SlotTownClass:    "Finfinne Border A1",
		schema.SlotUseType:      "Commercial",
	}

	req, err := BuildRequest(slots, p)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	b := req.Buildings[0]
	if b.Name != "Building 1" {
		t.Errorf("Name = %q, want default Building 1", b.Name)
	}
	if b.SpecializedComponents["site_preparation_area"] != 120 || b.SpecializedComponents["num_pump_islands"] != 4 {
		t.Errorf("components = %v", b.SpecializedComponents)
	}
	// Unanswered components default to zero quantity.
	if b.SpecializedComponents["canopy_area"] != 0 {
		t.Errorf("canopy_area = %v, want 0", b.SpecializedComponents["canopy_area"])
	}
	if req.FinancialFactors.MCF != 1.0 || req.FinancialFactors.PEF != 1.0 {
		t.Errorf("financial factors should default to 1.0: %+v", req.FinancialFactors)
	}
}

func TestBuildRequestCoercionErrors(t *testing.T) {
	p := requestProvider(t)

	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{
			name:      "missing category",
			mutate:    func(s map[string]any) { delete(s, schema.SlotCategory) },
			wantField: schema.SlotCategory,
		},
		{
			name:      "missing plot area",
			mutate:    func(s map[string]any) { delete(s, schema.SlotPlotArea) },
			wantField: schema.SlotPlotArea,
		},
		{
			name:      "unparseable plot area",
			mutate:    func(s map[string]any) { s[schema.SlotPlotArea] = "five hundred" },
			wantField: schema.SlotPlotArea,
		},
		{
			name:      "unparseable mcf",
			mutate:    func(s map[string]any) { s[schema.SlotMCF] = "high" },
			wantField: schema.SlotMCF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := villaSlots()
			tt.mutate(slots)

			_, err := BuildRequest(slots, p)
			var ce *valuation.ComputationError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want ComputationError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", ce.Field, tt.wantField)
			}
		})
	}
}

func TestBuildRequestFractionalFloorsRejected(t *testing.T) {
	p := requestProvider(t)

	slots := villaSlots()
	slots[schema.SlotCategory] = model.CategoryMultiStory
	slots[schema.SlotNumFloors] = "2.5"

	_, err := BuildRequest(slots, p)
	var ce *valuation.ComputationError
	if !errors.As(err, &ce) || ce.Field != schema.SlotNumFloors {
		t.Fatalf("error = %v, want ComputationError on num_floors", err)
	}
}

func TestBuildRequestFractionalCountRejected(t *testing.T) {
	p := requestProvider(t)

	slots := map[string]any{
		schema.SlotCategory: model.CategoryFuelStation,
		"num_pump_islands":  "3.5",
		schema.SlotPlotArea: "1000",
	}

	_, err := BuildRequest(slots, p)
	var ce *valuation.ComputationError
	if !errors.As(err, &ce) || ce.Field != "num_pump_islands" {
		t.Fatalf("error = %v, want ComputationError on num_pump_islands", err)
	}
}
