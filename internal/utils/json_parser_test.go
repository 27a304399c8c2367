package utils

import "testing"

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, got map[string]any)
	}{
		{
			name:  "pure JSON",
			input: `{"plot_area_sqm": 500, "prop_town": "Finfinne Border A1"}`,
			check: func(t *testing.T, got map[string]any) {
				if got["plot_area_sqm"] != 500.0 {
					t.Errorf("plot_area_sqm = %v, want 500", got["plot_area_sqm"])
				}
			},
		},
		{
			name:  "json code fence",
			input: "```json\n{\"has_basement\": true}\n```",
			check: func(t *testing.T, got map[string]any) {
				if got["has_basement"] != true {
					t.Errorf("has_basement = %v, want true", got["has_basement"])
				}
			},
		},
		{
			name:  "bare code fence",
			input: "```\n{\"num_floors\": 3}\n```",
			check: func(t *testing.T, got map[string]any) {
				if got["num_floors"] != 3.0 {
					t.Errorf("num_floors = %v, want 3", got["num_floors"])
				}
			},
		},
		{
			name:  "JSON surrounded by prose",
			input: `Sure, here is the extraction: {"gen_use": "Commercial"} hope that helps`,
			check: func(t *testing.T, got map[string]any) {
				if got["gen_use"] != "Commercial" {
					t.Errorf("gen_use = %v, want Commercial", got["gen_use"])
				}
			},
		},
		{
			name:  "braces inside string literals",
			input: `{"remarks": "roof shaped like } this", "mcf": 1.1}`,
			check: func(t *testing.T, got map[string]any) {
				if got["mcf"] != 1.1 {
					t.Errorf("mcf = %v, want 1.1", got["mcf"])
				}
			},
		},
		{
			name:    "no JSON at all",
			input:   "I could not extract anything.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			err := ParseAIJSON(tt.input, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
