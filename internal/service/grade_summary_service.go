package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadsync/gradebook-api/internal/dto"
	"github.com/acadsync/gradebook-api/internal/models"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
)

type computedGradeReader interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.ComputedGrade, error)
}

type gradeCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// GradeSummaryService serves the computed grade summary of a section, cached
// until the next export invalidates it.
type GradeSummaryService struct {
	sections sectionRepo
	grades   computedGradeReader
	cache    gradeCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGradeSummaryService constructs a GradeSummaryService.
func NewGradeSummaryService(sections sectionRepo, grades computedGradeReader, cache gradeCache, cacheTTL time.Duration, logger *zap.Logger) *GradeSummaryService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeSummaryService{sections: sections, grades: grades, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// SectionGrades returns the roster paired with each student's computed grade.
func (s *GradeSummaryService) SectionGrades(ctx context.Context, sectionID string) (*dto.SectionGradesResponse, error) {
	key := sectionGradesCacheKey(sectionID)
	if s.cache != nil {
		var cached dto.SectionGradesResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	section, err := s.sections.FindWithRoster(ctx, sectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	grades, err := s.grades.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load computed grades")
	}

	byStudent := make(map[string]*models.ComputedGrade, len(grades))
	for i := range grades {
		byStudent[grades[i].StudentID] = &grades[i]
	}
	response := &dto.SectionGradesResponse{SectionID: sectionID}
	for _, student := range section.Students {
		response.Grades = append(response.Grades, dto.StudentGrade{Student: student, Grade: byStudent[student.ID]})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, response, s.cacheTTL); err != nil {
			s.logger.Warn("grade summary cache write failed", zap.String("section_id", sectionID), zap.Error(err))
		}
	}
	return response, nil
}

func sectionGradesCacheKey(sectionID string) string {
	return fmt.Sprintf("grades:section:%s", sectionID)
}
