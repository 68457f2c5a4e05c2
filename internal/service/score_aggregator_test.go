package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsync/gradebook-api/internal/models"
)

func TestBuildScoreIndexLookup(t *testing.T) {
	index := BuildScoreIndex([]models.ActivityScore{
		{ActivityID: "quiz-1", StudentID: "stu-1", Score: 8},
		{ActivityID: "quiz-1", StudentID: "stu-2", Score: 10},
		{ActivityID: "lab-1", StudentID: "stu-1", Score: 45},
	})

	score, ok := index.Lookup("quiz-1", "stu-2")
	require.True(t, ok)
	assert.Equal(t, 10.0, score)

	_, ok = index.Lookup("quiz-1", "stu-3")
	assert.False(t, ok)
	_, ok = index.Lookup("quiz-9", "stu-1")
	assert.False(t, ok)
}

func TestFilterActivities(t *testing.T) {
	midterm := models.TermMidterm
	activities := []models.Activity{
		{ID: "a", Category: models.CategoryClassStanding, Term: models.TermMidterm},
		{ID: "b", Category: models.CategoryClassStanding, Term: models.TermFinalterm},
		{ID: "c", Category: models.CategoryLaboratory, Term: models.TermMidterm},
	}

	got := FilterActivities(activities, models.CategoryClassStanding, nil)
	require.Len(t, got, 2)

	got = FilterActivities(activities, models.CategoryClassStanding, &midterm)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = FilterActivities(activities, models.CategoryMajorOutput, nil)
	assert.Empty(t, got)
}

func TestCategoryPercentageMissingScoreCountsAgainstStudent(t *testing.T) {
	activities := []models.Activity{
		{ID: "q1", MaxScore: 10},
		{ID: "q2", MaxScore: 10},
	}
	index := BuildScoreIndex([]models.ActivityScore{
		{ActivityID: "q1", StudentID: "stu-1", Score: 10},
	})

	got := CategoryPercentage(activities, index, "stu-1")
	require.False(t, got.Absent)
	// q2 was never recorded: 0 earned, 10 still possible.
	assert.Equal(t, 50.0, got.Percent)
}

func TestCategoryPercentageMissingDiffersFromZero(t *testing.T) {
	activities := []models.Activity{{ID: "q1", MaxScore: 10}}

	missing := CategoryPercentage(activities, ScoreIndex{}, "stu-1")
	zero := CategoryPercentage(activities, BuildScoreIndex([]models.ActivityScore{
		{ActivityID: "q1", StudentID: "stu-1", Score: 0},
	}), "stu-1")

	// Both aggregate to 0%, but neither makes the category absent.
	assert.False(t, missing.Absent)
	assert.False(t, zero.Absent)
	assert.Equal(t, missing.Percent, zero.Percent)
}

func TestCategoryPercentageEmptySetIsAbsent(t *testing.T) {
	got := CategoryPercentage(nil, ScoreIndex{}, "stu-1")
	assert.True(t, got.Absent)

	// Degenerate max scores cannot produce a percentage either.
	got = CategoryPercentage([]models.Activity{{ID: "q1", MaxScore: 0}}, ScoreIndex{}, "stu-1")
	assert.True(t, got.Absent)
}
