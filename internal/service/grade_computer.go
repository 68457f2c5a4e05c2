package service

import (
	"time"

	"github.com/acadsync/gradebook-api/internal/models"
)

// ComputeStudentGrade derives the full grade record of one student from the
// section's complete activity and score sets. Fields stay nil when their
// underlying components are absent; present components are always written in
// full.
func ComputeStudentGrade(section *models.Section, activities []models.Activity, scores ScoreIndex, studentID string) *models.ComputedGrade {
	grade := &models.ComputedGrade{
		StudentID:  studentID,
		SectionID:  section.ID,
		ComputedAt: time.Now().UTC(),
	}

	midterm := computeTerm(section, activities, scores, studentID, models.TermMidterm, grade)
	finalterm := computeTerm(section, activities, scores, studentID, models.TermFinalterm, grade)

	grade.FinalGradePoint, grade.Remarks = FinalGrade(midterm, finalterm)
	return grade
}

// ComputeSectionGrades runs ComputeStudentGrade over the roster. The per-
// student computations are pure and independent; order does not matter.
func ComputeSectionGrades(section *models.Section, activities []models.Activity, scores ScoreIndex) map[string]*models.ComputedGrade {
	grades := make(map[string]*models.ComputedGrade, len(section.Students))
	for _, student := range section.Students {
		grades[student.ID] = ComputeStudentGrade(section, activities, scores, student.ID)
	}
	return grades
}

func computeTerm(section *models.Section, activities []models.Activity, scores ScoreIndex, studentID string, term models.AcademicTerm, grade *models.ComputedGrade) *TermResult {
	cs := CategoryPercentage(FilterActivities(activities, models.CategoryClassStanding, &term), scores, studentID)
	lab := CategoryPercentage(FilterActivities(activities, models.CategoryLaboratory, &term), scores, studentID)
	mo := CategoryPercentage(FilterActivities(activities, models.CategoryMajorOutput, &term), scores, studentID)

	result := TermGrade(cs, lab, mo, section.GradingSchema)

	var percent, equivalent *float64
	if !result.Absent {
		p := float64(result.Percent)
		e := PercentEquivalent(p)
		percent, equivalent = &p, &e
	}

	if term == models.TermMidterm {
		grade.MidtermClassStanding = categoryPtr(cs)
		grade.MidtermLaboratory = categoryPtr(lab)
		grade.MidtermMajorOutput = categoryPtr(mo)
		grade.MidtermPercent = percent
		grade.MidtermEquivalent = equivalent
	} else {
		grade.FinaltermClassStanding = categoryPtr(cs)
		grade.FinaltermLaboratory = categoryPtr(lab)
		grade.FinaltermMajorOutput = categoryPtr(mo)
		grade.FinaltermPercent = percent
		grade.FinaltermEquivalent = equivalent
	}
	return &result
}

func categoryPtr(result models.CategoryResult) *float64 {
	if result.Absent {
		return nil
	}
	percent := result.Percent
	return &percent
}
