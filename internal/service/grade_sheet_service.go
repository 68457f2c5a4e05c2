package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/acadsync/gradebook-api/internal/models"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
	"github.com/acadsync/gradebook-api/pkg/export"
)

type gridCSVRenderer interface {
	Render(grid export.Grid) ([]byte, error)
}

type gridPDFRenderer interface {
	Render(grid export.Grid) ([]byte, error)
}

// GradeSheetService produces local renderings of the synthesized grade sheet
// without touching the external spreadsheet service. The printed schedule is
// the one persisted by the most recent export.
type GradeSheetService struct {
	sections sectionRepo
	activity activityReader
	scores   scoreReader
	csv      gridCSVRenderer
	pdf      gridPDFRenderer
	logger   *zap.Logger
}

// NewGradeSheetService constructs a GradeSheetService.
func NewGradeSheetService(sections sectionRepo, activity activityReader, scores scoreReader, csv gridCSVRenderer, pdf gridPDFRenderer, logger *zap.Logger) *GradeSheetService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeSheetService{sections: sections, activity: activity, scores: scores, csv: csv, pdf: pdf, logger: logger}
}

// RenderPDF renders the sheet as a printable PDF.
func (s *GradeSheetService) RenderPDF(ctx context.Context, sectionID string, mode SheetMode) ([]byte, string, error) {
	grid, name, err := s.grid(ctx, sectionID, mode)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(*grid)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade sheet pdf")
	}
	return payload, name + ".pdf", nil
}

// RenderCSV renders the sheet as CSV.
func (s *GradeSheetService) RenderCSV(ctx context.Context, sectionID string, mode SheetMode) ([]byte, string, error) {
	grid, name, err := s.grid(ctx, sectionID, mode)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(*grid)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade sheet csv")
	}
	return payload, name + ".csv", nil
}

func (s *GradeSheetService) grid(ctx context.Context, sectionID string, mode SheetMode) (*export.Grid, string, error) {
	section, err := s.sections.FindWithRoster(ctx, sectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	activities, err := s.activity.List(ctx, models.ActivityFilter{SubjectID: section.SubjectID, SchoolYear: section.SchoolYear})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}

	var index ScoreIndex = ScoreIndex{}
	if len(activities) > 0 {
		ids := make([]string, 0, len(activities))
		for _, activity := range activities {
			ids = append(ids, activity.ID)
		}
		scores, err := s.scores.ListByActivities(ctx, ids)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scores")
		}
		index = BuildScoreIndex(scores)
	}

	grades := ComputeSectionGrades(section, activities, index)
	content, err := SynthesizeSheetContent(section, activities, index, grades, section.ScheduleInfo, mode)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to synthesize sheet content")
	}

	name := fmt.Sprintf("%s_%s", section.SubjectCode, section.Code)
	return &export.Grid{
		Title:      mode.Title(),
		Rows:       content.Rows,
		HeaderRows: content.HeaderRows,
	}, name, nil
}
