package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsync/gradebook-api/internal/models"
)

func TestComputedGradeRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO computed_grades")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	point := 1.75
	remark := models.RemarkPassed
	grade := &models.ComputedGrade{
		StudentID:       "stu-1",
		SectionID:       "sec-1",
		FinalGradePoint: &point,
		Remarks:         &remark,
	}

	repo := NewComputedGradeRepository(db)
	require.NoError(t, repo.Upsert(context.Background(), grade))
	assert.NotEmpty(t, grade.ID, "fresh grades get an id assigned")
	assert.False(t, grade.ComputedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComputedGradeRepositoryListBySection(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM computed_grades WHERE section_id = $1")).
		WithArgs("sec-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "student_id", "section_id",
			"mid_class_standing", "mid_laboratory", "mid_major_output", "mid_percent", "mid_equivalent",
			"fin_class_standing", "fin_laboratory", "fin_major_output", "fin_percent", "fin_equivalent",
			"final_grade_point", "remarks", "computed_at",
		}).AddRow("cg-1", "stu-1", "sec-1",
			90.0, nil, 85.0, 88.0, 1.75,
			nil, nil, nil, nil, nil,
			nil, "INCOMPLETE", now))

	repo := NewComputedGradeRepository(db)
	grades, err := repo.ListBySection(context.Background(), "sec-1")
	require.NoError(t, err)

	require.Len(t, grades, 1)
	assert.Nil(t, grades[0].MidtermLaboratory)
	require.NotNil(t, grades[0].MidtermPercent)
	assert.Equal(t, 88.0, *grades[0].MidtermPercent)
	require.NotNil(t, grades[0].Remarks)
	assert.Equal(t, models.RemarkIncomplete, *grades[0].Remarks)
	require.NoError(t, mock.ExpectationsWereMet())
}
