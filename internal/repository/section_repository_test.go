package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsync/gradebook-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sectionColumns() []string {
	return []string{
		"id", "code", "subject_id", "subject_code", "subject_title",
		"school_year", "instructor_id", "instructor_name",
		"ws_class_standing", "ws_laboratory", "ws_major_output",
		"sched_day", "sched_time", "sched_room", "chairperson", "dean",
		"created_at", "updated_at",
	}
}

func TestSectionRepositoryFindWithRoster(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.code, s.subject_id")).
		WithArgs("sec-1").
		WillReturnRows(sqlmock.NewRows(sectionColumns()).
			AddRow("sec-1", "A", "subj-1", "CS101", "Intro to Computing",
				"2025-2026", "inst-1", "Prof. Reyes",
				40.0, 30.0, 30.0,
				"MWF", "08:00-09:00", "R204", "", "",
				now, now))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT st.id, st.student_no, st.full_name")).
		WithArgs("sec-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_no", "full_name"}).
			AddRow("stu-1", "2025-0001", "Abad, Maria").
			AddRow("stu-2", "2025-0002", "Bautista, Jose"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_id, kind, document_id")).
		WithArgs("sec-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "section_id", "kind", "document_id", "sheet_id", "sheet_title", "document_title", "document_url", "used_fallback_hub", "last_exported_at"}).
			AddRow("h-1", "sec-1", "termly", "doc-1", int64(2), "CS101_A_2025-2026_MIDTERM", "CS101_A_2025-2026_MIDTERM", "local://spreadsheets/doc-1", false, now))

	repo := NewSectionRepository(db)
	section, err := repo.FindWithRoster(context.Background(), "sec-1")
	require.NoError(t, err)

	assert.Equal(t, "CS101", section.SubjectCode)
	assert.Equal(t, 40.0, section.GradingSchema.ClassStanding)
	assert.Equal(t, "MWF", section.ScheduleInfo.Day)
	require.Len(t, section.Students, 2)
	handle := section.Handle(models.ExportKindTermly)
	require.NotNil(t, handle)
	assert.Equal(t, "doc-1", handle.DocumentID)
	assert.Nil(t, section.Handle(models.ExportKindFinalGrade))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryFindWithRosterNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.code, s.subject_id")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewSectionRepository(db)
	_, err := repo.FindWithRoster(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositorySaveExportMetadata(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO section_export_handles")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sections SET sched_day")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewSectionRepository(db)
	handle := &models.ExportResourceHandle{
		Kind:           models.ExportKindTermly,
		DocumentID:     "doc-1",
		SheetID:        2,
		SheetTitle:     "CS101_A_2025-2026_MIDTERM",
		DocumentTitle:  "CS101_A_2025-2026_MIDTERM",
		DocumentURL:    "local://spreadsheets/doc-1",
		LastExportedAt: time.Now().UTC(),
	}
	schedule := models.ScheduleInfo{Day: "MWF", Time: "08:00-09:00", Room: "R204"}

	require.NoError(t, repo.SaveExportMetadata(context.Background(), "sec-1", handle, schedule))
	assert.NotEmpty(t, handle.ID, "a fresh handle gets an id assigned")
	assert.Equal(t, "sec-1", handle.SectionID)
	require.NoError(t, mock.ExpectationsWereMet())
}
