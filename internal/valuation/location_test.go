package valuation

import (
	"testing"
)

func TestSelectPlotGrade(t *testing.T) {
	p := testProvider(t)

	if got := SelectPlotGrade(p, "Finfinne Border A1", "Residential", 500); got != "1st" {
		t.Errorf("SelectPlotGrade() = %q, want 1st", got)
	}
	// Unknown paths fall back to the first grade.
	if got := SelectPlotGrade(p, "Atlantis", "Residential", 500); got != "1st" {
		t.Errorf("SelectPlotGrade(unknown town) = %q, want 1st", got)
	}
}

func TestLocationValue(t *testing.T) {
	p := testProvider(t)

	// Area 1000 lands in the 501-2000 tier of Finfinne Border A1 /
	// Residential / 1st, rated 7650.
	if got := locationValue(p, "Finfinne Border A1", "Residential", "1st", 1000); got != 7650*1000 {
		t.Errorf("locationValue() = %v, want %v", got, 7650*1000)
	}

	// Absent town/use/grade path falls back to the flat rate.
	if got := locationValue(p, "Atlantis", "Residential", "1st", 200); got != fallbackLocationRate*200 {
		t.Errorf("locationValue(unknown town) = %v, want %v", got, fallbackLocationRate*200)
	}
}

func TestLocationValueLimit(t *testing.T) {
	const ccw = 1000.0

	tests := []struct {
		name     string
		ccw      float64
		plotArea float64
		want     float64
	}{
		{"small plot gets 3x", ccw, 500, 3000},
		{"boundary at 2000 still 3x", ccw, 2000, 3000},
		{"interpolated at 4000", ccw, 4000, 2500},
		{"interpolated at 8000", ccw, 8000, 1500},
		{"boundary at 10000 reaches 1x", ccw, 10000, 1000},
		{"above 10000 stays 1x", ccw, 25000, 1000},
		{"zero construction cost caps at zero", 0, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := locationValueLimit(tt.ccw, tt.plotArea); got != tt.want {
				t.Errorf("locationValueLimit(%v, %v) = %v, want %v", tt.ccw, tt.plotArea, got, tt.want)
			}
		})
	}
}
