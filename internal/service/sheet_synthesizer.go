package service

import (
	"fmt"
	"strconv"

	"github.com/acadsync/gradebook-api/internal/models"
)

// Institutional header printed at the top of every exported grade sheet.
const (
	institutionName    = "ACADSYNC STATE UNIVERSITY"
	institutionAddress = "Office of the University Registrar"
)

// SheetMode selects the grade-sheet layout. Term is only consulted for the
// termly kind.
type SheetMode struct {
	Kind models.ExportKind
	Term models.AcademicTerm
}

// Title returns the banner printed on the sheet for this mode.
func (m SheetMode) Title() string {
	if m.Kind == models.ExportKindFinalGrade {
		return "FINAL GRADE SHEET"
	}
	if m.Term == models.TermFinalterm {
		return "FINALTERM GRADE SHEET"
	}
	return "MIDTERM GRADE SHEET"
}

type categoryBlock struct {
	Category   models.GradingCategory
	Activities []models.Activity
}

// categoryLabels are the printed group headers per grading category.
var categoryLabels = map[models.GradingCategory]string{
	models.CategoryClassStanding: "CLASS STANDING",
	models.CategoryLaboratory:    "LABORATORY",
	models.CategoryMajorOutput:   "MAJOR OUTPUT",
}

// SynthesizeSheetContent lays the section's grades out into a presentation
// grid. It is a pure function: all I/O happens before (loading) and after
// (writing) this call.
//
// A category with zero activities in scope is omitted entirely, both its
// activity columns and its summary column, so the column count shrinks.
// Unrecorded scores render as blank cells to keep them distinguishable from
// a scored zero.
func SynthesizeSheetContent(
	section *models.Section,
	activities []models.Activity,
	scores ScoreIndex,
	grades map[string]*models.ComputedGrade,
	schedule models.ScheduleInfo,
	mode SheetMode,
) (*models.SheetContent, error) {
	if section == nil {
		return nil, fmt.Errorf("section required")
	}

	var term *models.AcademicTerm
	if mode.Kind == models.ExportKindTermly {
		term = &mode.Term
	}

	blocks := make([]categoryBlock, 0, len(models.Categories))
	for _, category := range models.Categories {
		inScope := FilterActivities(activities, category, term)
		if len(inScope) == 0 {
			continue
		}
		blocks = append(blocks, categoryBlock{Category: category, Activities: inScope})
	}

	summaryLabels := summaryColumns(blocks, mode)
	activityCount := 0
	for _, block := range blocks {
		activityCount += len(block.Activities)
	}
	const fixedCols = 3 // row number, student number, student name
	columnCount := fixedCols + activityCount + len(summaryLabels)

	b := NewGridBuilder(columnCount)

	b.AppendBannerRow(institutionName)
	b.AppendBannerRow(institutionAddress)
	b.AppendBannerRow(mode.Title())

	b.AppendRow("Subject:", fmt.Sprintf("%s - %s", section.SubjectCode, section.SubjectTitle))
	b.AppendRow("Section:", section.Code)
	b.AppendRow("School Year:", section.SchoolYear)
	b.AppendRow("Schedule:", fmt.Sprintf("%s %s %s", schedule.Day, schedule.Time, schedule.Room))
	b.AppendRow("Instructor:", section.Instructor)
	b.AppendRow()

	appendCategoryHeader(b, blocks, summaryLabels, fixedCols, mode)
	b.EndHeader()

	for i, student := range section.Students {
		row := make([]string, 0, columnCount)
		row = append(row, strconv.Itoa(i+1), student.StudentNo, student.FullName)
		for _, block := range blocks {
			for _, activity := range block.Activities {
				if score, ok := scores.Lookup(activity.ID, student.ID); ok {
					row = append(row, formatScore(score))
				} else {
					row = append(row, "")
				}
			}
		}
		row = append(row, summaryValues(grades[student.ID], blocks, mode)...)
		b.AppendExactRow(row)
	}

	b.AppendRow()
	b.AppendRow("Prepared by:", section.Instructor)
	if schedule.Chairperson != "" {
		b.AppendRow("Noted by:", schedule.Chairperson)
	}
	if schedule.Dean != "" {
		b.AppendRow("Approved by:", schedule.Dean)
	}

	return b.Build()
}

// appendCategoryHeader emits the three dynamic header rows: category group
// labels, per-activity titles, and the max-score row.
func appendCategoryHeader(b *GridBuilder, blocks []categoryBlock, summaryLabels []string, fixedCols int, mode SheetMode) {
	groupRow := make([]string, 0, fixedCols)
	groupRow = append(groupRow, "", "", "")
	col := fixedCols
	type span struct {
		start, end int
		label      string
		category   models.GradingCategory
	}
	var spans []span
	for _, block := range blocks {
		start := col
		for range block.Activities {
			groupRow = append(groupRow, "")
			col++
		}
		groupRow[start] = categoryLabels[block.Category]
		spans = append(spans, span{start: start, end: col - 1, label: categoryLabels[block.Category], category: block.Category})
	}
	summaryStart := col
	for range summaryLabels {
		groupRow = append(groupRow, "")
		col++
	}
	if len(summaryLabels) > 0 {
		groupRow[summaryStart] = "SUMMARY"
	}
	b.AppendExactRow(groupRow)
	for _, s := range spans {
		b.Span(s.start, s.end, s.label)
		b.MarkCategory(s.start, s.end, s.category)
	}
	if len(summaryLabels) > 0 {
		b.Span(summaryStart, col-1, "SUMMARY")
	}

	titleRow := []string{"No.", "Student No.", "Student Name"}
	maxRow := []string{"", "", "Max Score"}
	for _, block := range blocks {
		for _, activity := range block.Activities {
			titleRow = append(titleRow, activity.Title)
			maxRow = append(maxRow, formatScore(activity.MaxScore))
		}
	}
	titleRow = append(titleRow, summaryLabels...)
	for range summaryLabels {
		maxRow = append(maxRow, "")
	}
	b.AppendExactRow(titleRow)
	b.AppendExactRow(maxRow)
}

// summaryColumns returns the trailing summary column labels for the mode.
func summaryColumns(blocks []categoryBlock, mode SheetMode) []string {
	if mode.Kind == models.ExportKindFinalGrade {
		return []string{"MIDTERM", "FINALTERM", "FINAL GRADE", "REMARKS"}
	}
	labels := make([]string, 0, len(blocks)+1)
	for _, block := range blocks {
		switch block.Category {
		case models.CategoryClassStanding:
			labels = append(labels, "CS %")
		case models.CategoryLaboratory:
			labels = append(labels, "LAB %")
		case models.CategoryMajorOutput:
			labels = append(labels, "MO %")
		}
	}
	return append(labels, "TERM GRADE")
}

// summaryValues renders the summary cells of one student row.
func summaryValues(grade *models.ComputedGrade, blocks []categoryBlock, mode SheetMode) []string {
	if mode.Kind == models.ExportKindFinalGrade {
		cells := make([]string, 0, 4)
		if grade == nil {
			return []string{"", "", "", ""}
		}
		cells = append(cells, formatPercentPtr(grade.MidtermPercent))
		cells = append(cells, formatPercentPtr(grade.FinaltermPercent))
		cells = append(cells, formatPointPtr(grade.FinalGradePoint))
		if grade.Remarks != nil {
			cells = append(cells, string(*grade.Remarks))
		} else {
			cells = append(cells, "")
		}
		return cells
	}

	cells := make([]string, 0, len(blocks)+1)
	for _, block := range blocks {
		cells = append(cells, formatPercentPtr(categoryAverage(grade, block.Category, mode.Term)))
	}
	if grade != nil {
		cells = append(cells, formatPercentPtr(grade.TermPercent(mode.Term)))
	} else {
		cells = append(cells, "")
	}
	return cells
}

// categoryAverage picks the stored per-term category average off the grade.
func categoryAverage(grade *models.ComputedGrade, category models.GradingCategory, term models.AcademicTerm) *float64 {
	if grade == nil {
		return nil
	}
	if term == models.TermMidterm {
		switch category {
		case models.CategoryClassStanding:
			return grade.MidtermClassStanding
		case models.CategoryLaboratory:
			return grade.MidtermLaboratory
		case models.CategoryMajorOutput:
			return grade.MidtermMajorOutput
		}
	}
	switch category {
	case models.CategoryClassStanding:
		return grade.FinaltermClassStanding
	case models.CategoryLaboratory:
		return grade.FinaltermLaboratory
	case models.CategoryMajorOutput:
		return grade.FinaltermMajorOutput
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercentPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPointPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
