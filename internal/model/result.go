package model

// ValuationResult is the full cost breakdown produced by the pipeline.
// CalculatedLocationValue is the raw table lookup; FinalLocationValue is
// the lookup capped by LocationValueLimit.
type ValuationResult struct {
	TotalBuildingCost       float64           `json:"total_building_cost"`
	TotalOtherCosts         float64           `json:"total_other_costs"`
	CalculatedLocationValue float64           `json:"calculated_location_value"`
	LocationValueLimit      float64           `json:"location_value_limit"`
	FinalLocationValue      float64           `json:"final_applied_location_value"`
	EstimatedMarketValue    float64           `json:"estimated_market_value"`
	EstimatedForcedValue    float64           `json:"estimated_forced_value"`
	SuggestedGrades         map[string]string `json:"suggested_grades"`
	SuggestedGradeOrder     []string          `json:"-"`
	Warnings                []string          `json:"validation_warnings"`
	Remarks                 string            `json:"remarks,omitempty"`
}
