package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsync/gradebook-api/internal/dto"
	"github.com/acadsync/gradebook-api/internal/middleware"
	"github.com/acadsync/gradebook-api/internal/models"
	"github.com/acadsync/gradebook-api/internal/service"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
	"github.com/acadsync/gradebook-api/pkg/response"
)

type sheetExporter interface {
	Export(ctx context.Context, req dto.ExportSheetRequest, actor *models.JWTClaims) (*dto.ExportSheetResponse, error)
}

type gradeSummarizer interface {
	SectionGrades(ctx context.Context, sectionID string) (*dto.SectionGradesResponse, error)
}

type sheetRenderer interface {
	RenderPDF(ctx context.Context, sectionID string, mode service.SheetMode) ([]byte, string, error)
	RenderCSV(ctx context.Context, sectionID string, mode service.SheetMode) ([]byte, string, error)
}

// ExportHandler exposes the grade sheet export and summary endpoints.
type ExportHandler struct {
	exports   sheetExporter
	summaries gradeSummarizer
	sheets    sheetRenderer
}

// NewExportHandler constructs handler.
func NewExportHandler(exports sheetExporter, summaries gradeSummarizer, sheets sheetRenderer) *ExportHandler {
	return &ExportHandler{exports: exports, summaries: summaries, sheets: sheets}
}

// ExportSheet godoc
// @Summary Export a section's grade sheet to a spreadsheet
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body dto.ExportSheetRequest true "Export payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sections/{id}/export-sheet [post]
func (h *ExportHandler) ExportSheet(c *gin.Context) {
	var req dto.ExportSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.SectionID = c.Param("id")

	result, err := h.exports.Export(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SectionGrades godoc
// @Summary Get the computed grade summary of a section
// @Tags Exports
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sections/{id}/grades [get]
func (h *ExportHandler) SectionGrades(c *gin.Context) {
	result, err := h.summaries.SectionGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GradeSheetPDF godoc
// @Summary Download the grade sheet as a PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Section ID"
// @Param kind query string false "Sheet kind (termly or final-grade)"
// @Param term query string false "Academic term for termly sheets"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /sections/{id}/grade-sheet.pdf [get]
func (h *ExportHandler) GradeSheetPDF(c *gin.Context) {
	mode, err := sheetModeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.sheets.RenderPDF(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}

// GradeSheetCSV godoc
// @Summary Download the grade sheet as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Section ID"
// @Param kind query string false "Sheet kind (termly or final-grade)"
// @Param term query string false "Academic term for termly sheets"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /sections/{id}/grade-sheet.csv [get]
func (h *ExportHandler) GradeSheetCSV(c *gin.Context) {
	mode, err := sheetModeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.sheets.RenderCSV(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

func sheetModeFromQuery(c *gin.Context) (service.SheetMode, error) {
	kind := models.ExportKind(c.DefaultQuery("kind", string(models.ExportKindFinalGrade)))
	if !kind.Valid() {
		return service.SheetMode{}, appErrors.Clone(appErrors.ErrValidation, "unknown sheet kind")
	}
	mode := service.SheetMode{Kind: kind}
	if kind == models.ExportKindTermly {
		term := models.AcademicTerm(c.Query("term"))
		if term != models.TermMidterm && term != models.TermFinalterm {
			return service.SheetMode{}, appErrors.Clone(appErrors.ErrValidation, "termly sheets require term=MIDTERM or term=FINALTERM")
		}
		mode.Term = term
	}
	return mode, nil
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	raw, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := raw.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
