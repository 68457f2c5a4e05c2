package service

import (
	"github.com/acadsync/gradebook-api/internal/models"
)

// FailingGradePoint is the sentinel grade point below the lowest bracket.
const FailingGradePoint = 5.00

// PassingGradePoint is the worst grade point still considered passing.
const PassingGradePoint = 3.00

const (
	midtermWeight   = 0.40
	finaltermWeight = 0.60
)

type percentBracket struct {
	MinPercent float64
	GradePoint float64
}

// percentBrackets maps a 0-100 percentage to its institutional grade point.
// Ordered descending; the first bracket whose threshold the percentage meets
// wins. Anything below 50 fails.
var percentBrackets = []percentBracket{
	{97, 1.00},
	{94, 1.25},
	{91, 1.50},
	{88, 1.75},
	{85, 2.00},
	{82, 2.25},
	{79, 2.50},
	{76, 2.75},
	{50, 3.00},
}

type numericBracket struct {
	MaxGrade   float64
	GradePoint float64
}

// numericBrackets maps an already-blended numeric grade back onto the grade
// point scale. Each bucket is inclusive of its upper bound; above 3.625 the
// blend fails outright.
var numericBrackets = []numericBracket{
	{1.125, 1.00},
	{1.375, 1.25},
	{1.625, 1.50},
	{1.875, 1.75},
	{2.125, 2.00},
	{2.375, 2.25},
	{2.625, 2.50},
	{2.875, 2.75},
	{3.125, 3.00},
	{3.375, 3.25},
	{3.625, 3.50},
}

// PercentEquivalent converts a category or term percentage to a grade point.
func PercentEquivalent(percent float64) float64 {
	for _, bracket := range percentBrackets {
		if percent >= bracket.MinPercent {
			return bracket.GradePoint
		}
	}
	return FailingGradePoint
}

// NumericEquivalent snaps a blended numeric grade onto the grade point scale.
func NumericEquivalent(grade float64) float64 {
	for _, bracket := range numericBrackets {
		if grade <= bracket.MaxGrade {
			return bracket.GradePoint
		}
	}
	return FailingGradePoint
}

// FinalGrade blends the two term percentages into the final grade point and
// remark. The midterm carries 40% and the finalterm 60%.
//
// With only one term on record the course is still in progress: the single
// term's equivalent is emitted as a provisional grade point with an
// INCOMPLETE remark, never FAILED. With neither term there is no grade yet.
func FinalGrade(midterm, finalterm *TermResult) (*float64, *models.Remark) {
	midPresent := midterm != nil && !midterm.Absent
	finPresent := finalterm != nil && !finalterm.Absent

	switch {
	case midPresent && finPresent:
		blend := PercentEquivalent(float64(midterm.Percent))*midtermWeight +
			PercentEquivalent(float64(finalterm.Percent))*finaltermWeight
		point := NumericEquivalent(blend)
		remark := models.RemarkPassed
		if point > PassingGradePoint {
			remark = models.RemarkFailed
		}
		return &point, &remark
	case midPresent:
		point := PercentEquivalent(float64(midterm.Percent))
		remark := models.RemarkIncomplete
		return &point, &remark
	case finPresent:
		point := PercentEquivalent(float64(finalterm.Percent))
		remark := models.RemarkIncomplete
		return &point, &remark
	default:
		return nil, nil
	}
}
