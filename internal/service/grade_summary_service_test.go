package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsync/gradebook-api/internal/dto"
	"github.com/acadsync/gradebook-api/internal/models"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
)

type mockGradeReader struct {
	grades []models.ComputedGrade
	calls  int
}

func (m *mockGradeReader) ListBySection(ctx context.Context, sectionID string) ([]models.ComputedGrade, error) {
	m.calls++
	return m.grades, nil
}

type mockGradeCache struct {
	store map[string][]byte
	sets  int
}

func (m *mockGradeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockGradeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = raw
	m.sets++
	return nil
}

func TestSectionGradesPairsRosterWithGrades(t *testing.T) {
	point := 1.75
	remark := models.RemarkPassed
	sections := &mockSectionRepo{section: exportSection()}
	grades := &mockGradeReader{grades: []models.ComputedGrade{
		{StudentID: "stu-1", SectionID: "sec-1", FinalGradePoint: &point, Remarks: &remark},
	}}
	cache := &mockGradeCache{}

	svc := NewGradeSummaryService(sections, grades, cache, time.Minute, nil)
	resp, err := svc.SectionGrades(context.Background(), "sec-1")
	require.NoError(t, err)

	assert.Equal(t, "sec-1", resp.SectionID)
	require.Len(t, resp.Grades, 2)
	require.NotNil(t, resp.Grades[0].Grade)
	assert.Equal(t, 1.75, *resp.Grades[0].Grade.FinalGradePoint)
	// stu-2 has never been exported; the roster entry still appears.
	assert.Nil(t, resp.Grades[1].Grade)
	assert.Equal(t, 1, cache.sets)
}

func TestSectionGradesServedFromCache(t *testing.T) {
	cached := dto.SectionGradesResponse{SectionID: "sec-1"}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)

	sections := &mockSectionRepo{section: exportSection()}
	grades := &mockGradeReader{}
	cache := &mockGradeCache{store: map[string][]byte{"grades:section:sec-1": raw}}

	svc := NewGradeSummaryService(sections, grades, cache, time.Minute, nil)
	resp, err := svc.SectionGrades(context.Background(), "sec-1")
	require.NoError(t, err)

	assert.Equal(t, "sec-1", resp.SectionID)
	assert.Zero(t, grades.calls)
}

func TestSectionGradesUnknownSection(t *testing.T) {
	svc := NewGradeSummaryService(&mockSectionRepo{}, &mockGradeReader{}, nil, time.Minute, nil)

	_, err := svc.SectionGrades(context.Background(), "sec-unknown")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
