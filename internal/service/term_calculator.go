package service

import (
	"math"

	"github.com/acadsync/gradebook-api/internal/models"
)

// TermResult is the blended percentage of one grading period.
type TermResult struct {
	Percent int
	Absent  bool
}

// TermGrade blends the three category percentages of one term into a single
// percentage using the section's grading schema.
//
// When the schema weights the laboratory but the student has no laboratory
// data for the term, the laboratory weight is redistributed between class
// standing and major output proportionally to their existing weights, so the
// full weight is conserved. Rounding happens once, on the blended percentage.
func TermGrade(cs, lab, mo models.CategoryResult, schema models.GradingSchema) TermResult {
	if cs.Absent && mo.Absent {
		return TermResult{Absent: true}
	}

	wCS := schema.ClassStanding
	wLab := schema.Laboratory
	wMO := schema.MajorOutput

	var blended float64
	switch {
	case wLab > 0 && !lab.Absent:
		blended = cs.Percent*wCS/100 + lab.Percent*wLab/100 + mo.Percent*wMO/100
	case wLab > 0:
		// Laboratory weighted but no laboratory data: hand its weight to the
		// remaining categories in proportion to their own weights.
		base := wCS + wMO
		if base == 0 {
			return TermResult{Absent: true}
		}
		adjCS := wCS + wLab*wCS/base
		adjMO := wMO + wLab*wMO/base
		blended = cs.Percent*adjCS/100 + mo.Percent*adjMO/100
	default:
		blended = cs.Percent*wCS/100 + mo.Percent*wMO/100
	}

	return TermResult{Percent: int(math.Round(blended))}
}
