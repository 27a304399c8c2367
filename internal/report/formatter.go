// Package report renders a ValuationResult into the text breakdown shown
// to the user by the UI collaborator.
package report

import (
	"fmt"
	"strings"

	"valuator/internal/model"
)

// Format renders the full valuation report.
func Format(result *model.ValuationResult) string {
	var b strings.Builder

	b.WriteString("## Property Valuation Report\n\n")
	b.WriteString("### Cost Breakdown:\n")
	fmt.Fprintf(&b, "- **Total Building Cost (CCW)**: ETB %s\n", Money(result.TotalBuildingCost))
	fmt.Fprintf(&b, "- **Other Costs**: ETB %s\n", Money(result.TotalOtherCosts))
	fmt.Fprintf(&b, "- **Location Value Applied**: ETB %s\n", Money(result.FinalLocationValue))
	fmt.Fprintf(&b, "  - Calculated Location Value: ETB %s\n", Money(result.CalculatedLocationValue))
	fmt.Fprintf(&b, "  - Location Value Limit: ETB %s\n", Money(result.LocationValueLimit))

	b.WriteString("\n### Final Valuation:\n")
	fmt.Fprintf(&b, "- **Estimated Market Value**: ETB %s\n", Money(result.EstimatedMarketValue))
	fmt.Fprintf(&b, "- **Estimated Forced Sale Value**: ETB %s\n", Money(result.EstimatedForcedValue))

	if len(result.SuggestedGradeOrder) > 0 {
		b.WriteString("\n### Building Grades:\n")
		for _, label := range result.SuggestedGradeOrder {
			fmt.Fprintf(&b, "- %s: %s\n", label, result.SuggestedGrades[label])
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n### Warnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	if result.Remarks != "" {
		fmt.Fprintf(&b, "\n### Remarks:\n%s\n", result.Remarks)
	}

	return strings.TrimSpace(b.String())
}

// Money formats an amount with thousands separators and two decimals,
// e.g. 1234567.5 -> "1,234,567.50".
func Money(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
