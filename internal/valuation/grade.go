package valuation

import (
	"strings"

	"valuator/internal/model"
	"valuator/internal/rates"
)

// qualityScores maps grades to a 0-4 quality score for averaging.
var qualityScores = map[string]float64{
	model.GradeExcellent: 4,
	model.GradeGood:      3,
	model.GradeAverage:   2,
	model.GradeEconomy:   1,
	model.GradeMinimum:   0,
}

// SuggestGrade infers a quality grade from the selected materials of a
// building. Each material is matched against the category's ordered
// substring->grade pairs (first hit wins), the matched grades are averaged
// as 0-4 scores, and the average is re-bucketed into a grade. Components
// with no match contribute nothing; when nothing matches at all the grade
// defaults to Average.
func SuggestGrade(selectedMaterials map[string]string, category string, provider rates.Provider) string {
	totalScore := 0.0
	count := 0

	for _, component := range provider.MaterialGradeMapping(category) {
		material, ok := selectedMaterials[component.Component]
		if !ok {
			continue
		}
		for _, mg := range component.Grades {
			if strings.Contains(material, mg.Material) {
				score, known := qualityScores[mg.Grade]
				if !known {
					score = 2
				}
				totalScore += score
				count++
				break
			}
		}
	}

	if count == 0 {
		return model.GradeAverage
	}
	return bucketScore(totalScore / float64(count))
}

// bucketScore converts an average 0-4 quality score back into a grade.
func bucketScore(avg float64) string {
	switch {
	case avg >= 3.5:
		return model.GradeExcellent
	case avg >= 2.5:
		return model.GradeGood
	case avg >= 1.5:
		return model.GradeAverage
	case avg >= 0.5:
		return model.GradeEconomy
	}
	return model.GradeMinimum
}

// gradeBucket collapses the five grades into the three deduction-table
// buckets.
func gradeBucket(grade string) string {
	switch grade {
	case model.GradeExcellent, model.GradeGood:
		return "Best"
	case model.GradeEconomy, model.GradeMinimum:
		return "Poor"
	}
	return "Avg"
}
