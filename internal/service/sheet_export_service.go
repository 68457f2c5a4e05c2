package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadsync/gradebook-api/internal/dto"
	"github.com/acadsync/gradebook-api/internal/models"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
	"github.com/acadsync/gradebook-api/pkg/spreadsheet"
)

type sectionRepo interface {
	FindWithRoster(ctx context.Context, id string) (*models.Section, error)
	SaveExportMetadata(ctx context.Context, sectionID string, handle *models.ExportResourceHandle, schedule models.ScheduleInfo) error
}

type activityReader interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
}

type scoreReader interface {
	ListByActivities(ctx context.Context, activityIDs []string) ([]models.ActivityScore, error)
}

type computedGradeWriter interface {
	Upsert(ctx context.Context, grade *models.ComputedGrade) error
}

type targetResolver interface {
	Resolve(ctx context.Context, prior *models.ExportResourceHandle, desiredTitle string) (*Resolution, error)
}

type gradeCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type exportObserver interface {
	ObserveExport(outcome string)
}

// SheetExportConfig tunes the cosmetic follow-up steps of an export run.
type SheetExportConfig struct {
	FolderID     string
	ShareEmail   string
	PublicAccess bool
}

// headerFillColors are the per-category header fills handed to the
// spreadsheet layer. Pure presentation; the engine only computes the ranges.
var headerFillColors = map[models.GradingCategory]string{
	models.CategoryClassStanding: "FDE9D9",
	models.CategoryLaboratory:    "DAEEF3",
	models.CategoryMajorOutput:   "E4DFEC",
}

// SheetExportService orchestrates one grade-sheet export run: load, compute,
// synthesize, resolve a writable target, write, then best-effort cosmetics
// and persistence. Everything up to and including the grid write is fatal;
// everything after only ever appends warnings.
type SheetExportService struct {
	sections  sectionRepo
	activity  activityReader
	scores    scoreReader
	grades    computedGradeWriter
	resolver  targetResolver
	sheets    spreadsheet.Service
	cache     gradeCacheInvalidator
	metrics   exportObserver
	cfg       SheetExportConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSheetExportService constructs a SheetExportService.
func NewSheetExportService(
	sections sectionRepo,
	activity activityReader,
	scores scoreReader,
	grades computedGradeWriter,
	resolver targetResolver,
	sheets spreadsheet.Service,
	cache gradeCacheInvalidator,
	metrics exportObserver,
	cfg SheetExportConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *SheetExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetExportService{
		sections:  sections,
		activity:  activity,
		scores:    scores,
		grades:    grades,
		resolver:  resolver,
		sheets:    sheets,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Export runs the full pipeline for one section and export kind.
func (s *SheetExportService) Export(ctx context.Context, req dto.ExportSheetRequest, actor *models.JWTClaims) (*dto.ExportSheetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if req.Kind == models.ExportKindTermly && req.Term == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termly export requires a term")
	}

	section, err := s.sections.FindWithRoster(ctx, req.SectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	if actor != nil && !actor.CanExport(section.InstructorID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the section instructor may export grades")
	}

	// Grades are always recomputed from both terms so the persisted record
	// reflects every component on file, regardless of the sheet layout.
	activities, err := s.activity.List(ctx, models.ActivityFilter{SubjectID: section.SubjectID, SchoolYear: section.SchoolYear})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}
	scoreIndex, err := s.loadScores(ctx, activities)
	if err != nil {
		return nil, err
	}
	grades := ComputeSectionGrades(section, activities, scoreIndex)

	mode := SheetMode{Kind: req.Kind}
	if req.Term != nil {
		mode.Term = *req.Term
	}
	schedule := models.ScheduleInfo{
		Day:         req.Schedule.Day,
		Time:        req.Schedule.Time,
		Room:        req.Schedule.Room,
		Chairperson: req.Schedule.Chairperson,
		Dean:        req.Schedule.Dean,
	}

	content, err := SynthesizeSheetContent(section, activities, scoreIndex, grades, schedule, mode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to synthesize sheet content")
	}

	resolution, err := s.resolver.Resolve(ctx, section.Handle(req.Kind), exportTitle(section, mode))
	if err != nil {
		return nil, err
	}

	warnings := WarningList(nil)
	warnings.Extend(resolution.Warnings)
	handle := resolution.Handle

	if resolution.Reused() {
		if err := s.sheets.ClearSheet(ctx, handle.DocumentID, handle.SheetTitle); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to clear previous export")
		}
		warnings.BestEffort("reset formatting", func() error {
			return s.sheets.ResetFormatting(ctx, handle.DocumentID, handle.SheetID)
		})
	}

	if err := s.sheets.WriteGrid(ctx, handle.DocumentID, handle.SheetTitle, content.Rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to write grade sheet")
	}

	s.runCosmetics(ctx, &handle, resolution, content, &warnings)

	summary := s.persistGrades(ctx, section, grades)
	if len(summary.Failed) > 0 {
		warnings.Addf("%d of %d computed grade rows failed to persist", len(summary.Failed), len(section.Students))
		for _, failure := range summary.Failed {
			s.logger.Warn("computed grade not persisted",
				zap.String("section_id", section.ID),
				zap.String("student_id", failure.StudentID),
				zap.String("reason", failure.Reason))
		}
	}

	handle.SectionID = section.ID
	handle.Kind = req.Kind
	handle.LastExportedAt = s.now().UTC()
	warnings.BestEffort("persist export handle", func() error {
		return s.sections.SaveExportMetadata(ctx, section.ID, &handle, schedule)
	})
	if s.cache != nil {
		warnings.BestEffort("invalidate grade cache", func() error {
			return s.cache.DeleteByPattern(ctx, sectionGradesCachePattern(section.ID))
		})
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(string(resolution.Outcome))
	}

	s.logger.Info("grade sheet exported",
		zap.String("section_id", section.ID),
		zap.String("kind", string(req.Kind)),
		zap.String("outcome", string(resolution.Outcome)),
		zap.Int("students", len(section.Students)),
		zap.Int("warnings", len(warnings)))

	return &dto.ExportSheetResponse{
		Success:         true,
		DocumentURL:     handle.DocumentURL,
		DocumentTitle:   handle.DocumentTitle,
		SheetTitle:      handle.SheetTitle,
		ReusedExisting:  resolution.Reused(),
		UsedFallbackHub: handle.UsedFallbackHub,
		Warnings:        warnings,
	}, nil
}

func (s *SheetExportService) loadScores(ctx context.Context, activities []models.Activity) (ScoreIndex, error) {
	if len(activities) == 0 {
		return ScoreIndex{}, nil
	}
	ids := make([]string, 0, len(activities))
	for _, activity := range activities {
		ids = append(ids, activity.ID)
	}
	scores, err := s.scores.ListByActivities(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scores")
	}
	return BuildScoreIndex(scores), nil
}

// runCosmetics applies the best-effort follow-up steps after a successful
// grid write. Every failure here is a warning, never an abort.
func (s *SheetExportService) runCosmetics(ctx context.Context, handle *models.ExportResourceHandle, resolution *Resolution, content *models.SheetContent, warnings *WarningList) {
	if resolution.Outcome == OutcomeCreated && handle.SheetTitle != handle.DocumentTitle {
		renamed := warnings.BestEffort("rename sheet tab", func() error {
			return s.sheets.RenameSheet(ctx, handle.DocumentID, handle.SheetID, handle.DocumentTitle)
		})
		if renamed {
			handle.SheetTitle = handle.DocumentTitle
		}
	}

	warnings.BestEffort("apply formatting", func() error {
		return s.sheets.ApplyFormatting(ctx, handle.DocumentID, handle.SheetID, sheetLayout(content))
	})
	if s.cfg.FolderID != "" && !handle.UsedFallbackHub {
		warnings.BestEffort("move document to folder", func() error {
			return s.sheets.MoveToFolder(ctx, handle.DocumentID, s.cfg.FolderID)
		})
	}
	if s.cfg.ShareEmail != "" {
		warnings.BestEffort("share document", func() error {
			return s.sheets.ShareWithUser(ctx, handle.DocumentID, s.cfg.ShareEmail)
		})
	}
	if s.cfg.PublicAccess {
		warnings.BestEffort("enable public access", func() error {
			return s.sheets.SetPublicAccess(ctx, handle.DocumentID)
		})
	}
}

func (s *SheetExportService) persistGrades(ctx context.Context, section *models.Section, grades map[string]*models.ComputedGrade) PersistSummary {
	var summary PersistSummary
	for _, student := range section.Students {
		grade := grades[student.ID]
		if grade == nil {
			continue
		}
		if err := s.grades.Upsert(ctx, grade); err != nil {
			summary.Failed = append(summary.Failed, PersistFailure{StudentID: student.ID, Reason: err.Error()})
			continue
		}
		summary.Succeeded++
	}
	return summary
}

// sheetLayout translates the synthesized grid facts into the structural
// descriptor the spreadsheet layer formats from.
func sheetLayout(content *models.SheetContent) spreadsheet.Layout {
	bands := make([]spreadsheet.ColorBand, 0, len(content.ColorRanges))
	for _, r := range content.ColorRanges {
		bands = append(bands, spreadsheet.ColorBand{
			StartCol: r.StartCol,
			EndCol:   r.EndCol,
			Color:    headerFillColors[r.Category],
		})
	}
	return spreadsheet.Layout{
		ColumnCount: content.ColumnCount,
		HeaderRows:  content.HeaderRows,
		RowCount:    len(content.Rows),
		ColorBands:  bands,
	}
}

// exportTitle derives the desired document title for a section and mode,
// e.g. "CS101_A_2025" or "CS101_A_2025_MIDTERM".
func exportTitle(section *models.Section, mode SheetMode) string {
	base := fmt.Sprintf("%s_%s_%s", section.SubjectCode, section.Code, section.SchoolYear)
	if mode.Kind == models.ExportKindTermly {
		return base + "_" + string(mode.Term)
	}
	return base
}

func sectionGradesCachePattern(sectionID string) string {
	return fmt.Sprintf("grades:section:%s*", sectionID)
}
