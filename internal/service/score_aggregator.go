package service

import (
	"github.com/acadsync/gradebook-api/internal/models"
)

// ScoreIndex maps activity id -> student id -> recorded score. A missing
// entry means the score was never recorded, which is not the same as zero.
type ScoreIndex map[string]map[string]float64

// BuildScoreIndex arranges raw score rows for constant-time lookup.
func BuildScoreIndex(scores []models.ActivityScore) ScoreIndex {
	index := make(ScoreIndex, len(scores))
	for _, score := range scores {
		byStudent, ok := index[score.ActivityID]
		if !ok {
			byStudent = make(map[string]float64)
			index[score.ActivityID] = byStudent
		}
		byStudent[score.StudentID] = score.Score
	}
	return index
}

// Lookup returns the recorded score for a student on an activity.
func (idx ScoreIndex) Lookup(activityID, studentID string) (float64, bool) {
	byStudent, ok := idx[activityID]
	if !ok {
		return 0, false
	}
	score, ok := byStudent[studentID]
	return score, ok
}

// FilterActivities narrows an activity set to one category, and optionally to
// one term when term is non-nil.
func FilterActivities(activities []models.Activity, category models.GradingCategory, term *models.AcademicTerm) []models.Activity {
	var filtered []models.Activity
	for _, activity := range activities {
		if activity.Category != category {
			continue
		}
		if term != nil && activity.Term != *term {
			continue
		}
		filtered = append(filtered, activity)
	}
	return filtered
}

// CategoryPercentage aggregates one student's scores across an activity set
// into a 0-100 percentage. An unrecorded score contributes 0 to the numerator
// but its activity still contributes maxScore to the denominator. An empty
// activity set yields an absent result so redistribution can detect it.
func CategoryPercentage(activities []models.Activity, scores ScoreIndex, studentID string) models.CategoryResult {
	if len(activities) == 0 {
		return models.AbsentCategory()
	}
	var earned, possible float64
	for _, activity := range activities {
		possible += activity.MaxScore
		if score, ok := scores.Lookup(activity.ID, studentID); ok {
			earned += score
		}
	}
	if possible == 0 {
		return models.AbsentCategory()
	}
	return models.PresentCategory(earned / possible * 100)
}
