package model

// BuildingSpec describes one building to be valued.
type BuildingSpec struct {
	Name                  string             `json:"name"`
	Category              string             `json:"category"`
	NumFloors             int                `json:"num_floors"`
	HasBasement           bool               `json:"has_basement"`
	IsUnderConstruction   bool               `json:"is_under_construction"`
	IncompleteComponents  []string           `json:"incomplete_components,omitempty"`
	SelectedMaterials     map[string]string  `json:"selected_materials,omitempty"`
	ConfirmedGrade        string             `json:"confirmed_grade,omitempty"`
	SpecializedComponents map[string]float64 `json:"specialized_components,omitempty"`
	TotalArea             float64            `json:"total_area"`
}

// PropertyDetails holds plot and location attributes shared by all
// buildings on the collateral.
type PropertyDetails struct {
	PlotArea  float64 `json:"plot_area"`
	TownClass string  `json:"prop_town"`
	UseType   string  `json:"gen_use"`
}

// SpecialItems holds extras valued outside the per-building cost.
type SpecialItems struct {
	HasElevator   bool `json:"has_elevator"`
	ElevatorStops int  `json:"elevator_stops"`
}

// OtherCosts holds percentage-based site costs (percent of CCW) and the
// flat water tank cost.
type OtherCosts struct {
	FencePercent         float64 `json:"fence_percent"`
	SepticPercent        float64 `json:"septic_percent"`
	ExternalWorksPercent float64 `json:"external_works_percent"`
	WaterTankCost        float64 `json:"water_tank_cost"`
	ConsultancyPercent   float64 `json:"consultancy_percent"`
}

// FinancialFactors adjust the final market value.
type FinancialFactors struct {
	MCF float64 `json:"mcf"`
	PEF float64 `json:"pef"`
}

// StructuredRequest is the fully populated input of the valuation
// pipeline. Buildings is modeled as a list although dialogue sessions
// currently collect exactly one.
type StructuredRequest struct {
	Buildings        []BuildingSpec   `json:"buildings"`
	PropertyDetails  PropertyDetails  `json:"property_details"`
	SpecialItems     SpecialItems     `json:"special_items"`
	OtherCosts       OtherCosts       `json:"other_costs"`
	FinancialFactors FinancialFactors `json:"financial_factors"`
	Remarks          string           `json:"remarks,omitempty"`
}
