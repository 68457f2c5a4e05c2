package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsync/gradebook-api/internal/models"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
	"github.com/acadsync/gradebook-api/pkg/spreadsheet"
)

// mockSheets implements spreadsheet.Service through overridable hooks.
type mockSheets struct {
	createDocument func(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error)
	getSheets      func(ctx context.Context, documentID string) ([]spreadsheet.SheetInfo, error)
	addSheet       func(ctx context.Context, documentID, title string) (*spreadsheet.SheetInfo, error)
	renameSheet    func(ctx context.Context, documentID string, sheetID int64, title string) error
	writeGrid      func(ctx context.Context, documentID, sheetTitle string, rows [][]string) error
	clearSheet     func(ctx context.Context, documentID, sheetTitle string) error
	resetFmt       func(ctx context.Context, documentID string, sheetID int64) error
	applyFmt       func(ctx context.Context, documentID string, sheetID int64, layout spreadsheet.Layout) error
	moveToFolder   func(ctx context.Context, documentID, folderID string) error
	shareWithUser  func(ctx context.Context, documentID, email string) error
	setPublic      func(ctx context.Context, documentID string) error
}

func (m *mockSheets) CreateDocument(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error) {
	if m.createDocument == nil {
		return &spreadsheet.DocumentInfo{DocumentID: "doc-new", SheetID: 0, SheetTitle: "Sheet1", Title: title, URL: "local://spreadsheets/doc-new"}, nil
	}
	return m.createDocument(ctx, title)
}

func (m *mockSheets) GetDocumentSheets(ctx context.Context, documentID string) ([]spreadsheet.SheetInfo, error) {
	if m.getSheets == nil {
		return nil, spreadsheet.ErrNotFound
	}
	return m.getSheets(ctx, documentID)
}

func (m *mockSheets) AddSheet(ctx context.Context, documentID, title string) (*spreadsheet.SheetInfo, error) {
	if m.addSheet == nil {
		return &spreadsheet.SheetInfo{SheetID: 1, Title: title}, nil
	}
	return m.addSheet(ctx, documentID, title)
}

func (m *mockSheets) RenameSheet(ctx context.Context, documentID string, sheetID int64, title string) error {
	if m.renameSheet == nil {
		return nil
	}
	return m.renameSheet(ctx, documentID, sheetID, title)
}

func (m *mockSheets) WriteGrid(ctx context.Context, documentID, sheetTitle string, rows [][]string) error {
	if m.writeGrid == nil {
		return nil
	}
	return m.writeGrid(ctx, documentID, sheetTitle, rows)
}

func (m *mockSheets) ClearSheet(ctx context.Context, documentID, sheetTitle string) error {
	if m.clearSheet == nil {
		return nil
	}
	return m.clearSheet(ctx, documentID, sheetTitle)
}

func (m *mockSheets) ResetFormatting(ctx context.Context, documentID string, sheetID int64) error {
	if m.resetFmt == nil {
		return nil
	}
	return m.resetFmt(ctx, documentID, sheetID)
}

func (m *mockSheets) ApplyFormatting(ctx context.Context, documentID string, sheetID int64, layout spreadsheet.Layout) error {
	if m.applyFmt == nil {
		return nil
	}
	return m.applyFmt(ctx, documentID, sheetID, layout)
}

func (m *mockSheets) MoveToFolder(ctx context.Context, documentID, folderID string) error {
	if m.moveToFolder == nil {
		return nil
	}
	return m.moveToFolder(ctx, documentID, folderID)
}

func (m *mockSheets) ShareWithUser(ctx context.Context, documentID, email string) error {
	if m.shareWithUser == nil {
		return nil
	}
	return m.shareWithUser(ctx, documentID, email)
}

func (m *mockSheets) SetPublicAccess(ctx context.Context, documentID string) error {
	if m.setPublic == nil {
		return nil
	}
	return m.setPublic(ctx, documentID)
}

func (m *mockSheets) DocumentURL(documentID string) string {
	return "local://spreadsheets/" + documentID
}

func fixedResolver(sheets spreadsheet.Service, cfg SheetResolverConfig) *SheetResolver {
	r := NewSheetResolver(sheets, cfg, nil)
	r.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestResolveReusesStoredHandle(t *testing.T) {
	prior := &models.ExportResourceHandle{
		DocumentID: "doc-1",
		SheetID:    2,
		SheetTitle: "CS101_A_2025-2026",
	}
	sheets := &mockSheets{
		getSheets: func(ctx context.Context, documentID string) ([]spreadsheet.SheetInfo, error) {
			assert.Equal(t, "doc-1", documentID)
			return []spreadsheet.SheetInfo{
				{SheetID: 0, Title: "Sheet1"},
				{SheetID: 2, Title: "CS101_A_2025-2026"},
			}, nil
		},
	}

	resolution, err := fixedResolver(sheets, SheetResolverConfig{}).Resolve(context.Background(), prior, "CS101_A_2025-2026")
	require.NoError(t, err)

	assert.Equal(t, OutcomeReused, resolution.Outcome)
	assert.True(t, resolution.Reused())
	assert.Equal(t, "doc-1", resolution.Handle.DocumentID)
	assert.Empty(t, resolution.Warnings)
}

func TestResolveStaleHandleFallsThroughToCreate(t *testing.T) {
	prior := &models.ExportResourceHandle{DocumentID: "doc-gone", SheetID: 0, SheetTitle: "old"}
	created := false
	sheets := &mockSheets{
		getSheets: func(ctx context.Context, documentID string) ([]spreadsheet.SheetInfo, error) {
			return nil, spreadsheet.ErrNotFound
		},
		createDocument: func(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error) {
			created = true
			return &spreadsheet.DocumentInfo{DocumentID: "doc-2", SheetID: 0, SheetTitle: "Sheet1", Title: title}, nil
		},
	}

	resolution, err := fixedResolver(sheets, SheetResolverConfig{}).Resolve(context.Background(), prior, "CS101_A_2025-2026")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, OutcomeCreated, resolution.Outcome)
	require.NotEmpty(t, resolution.Warnings)
	assert.Contains(t, resolution.Warnings[0], "could not be reused")
}

func TestResolveDeletedTabFallsThroughToCreate(t *testing.T) {
	prior := &models.ExportResourceHandle{DocumentID: "doc-1", SheetID: 7, SheetTitle: "CS101"}
	sheets := &mockSheets{
		getSheets: func(ctx context.Context, documentID string) ([]spreadsheet.SheetInfo, error) {
			return []spreadsheet.SheetInfo{{SheetID: 0, Title: "Sheet1"}}, nil
		},
	}

	resolution, err := fixedResolver(sheets, SheetResolverConfig{}).Resolve(context.Background(), prior, "CS101")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, resolution.Outcome)
	require.NotEmpty(t, resolution.Warnings)
	assert.Contains(t, resolution.Warnings[0], "no longer exists")
}

func TestResolveAdvancesPastDuplicateTitles(t *testing.T) {
	var attempted []string
	sheets := &mockSheets{
		createDocument: func(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error) {
			attempted = append(attempted, title)
			if len(attempted) == 1 {
				return nil, fmt.Errorf("document %q: %w", title, spreadsheet.ErrDuplicateTitle)
			}
			return &spreadsheet.DocumentInfo{DocumentID: "doc-3", SheetID: 0, SheetTitle: "Sheet1", Title: title}, nil
		},
	}

	resolution, err := fixedResolver(sheets, SheetResolverConfig{}).Resolve(context.Background(), nil, "CS101_A_2025-2026")
	require.NoError(t, err)

	require.Equal(t, []string{"CS101_A_2025-2026", "CS101_A_2025-2026_20260314"}, attempted)
	assert.Equal(t, OutcomeCreated, resolution.Outcome)
	assert.Equal(t, "CS101_A_2025-2026_20260314", resolution.Handle.DocumentTitle)
}

func TestResolveExhaustedCandidatesConflict(t *testing.T) {
	sheets := &mockSheets{
		createDocument: func(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error) {
			return nil, spreadsheet.ErrDuplicateTitle
		},
	}

	_, err := fixedResolver(sheets, SheetResolverConfig{}).Resolve(context.Background(), nil, "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestResolveUnauthorizedFallsBackToHub(t *testing.T) {
	sheets := &mockSheets{
		createDocument: func(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error) {
			return nil, spreadsheet.ErrUnauthorized
		},
		addSheet: func(ctx context.Context, documentID, title string) (*spreadsheet.SheetInfo, error) {
			assert.Equal(t, "hub-1", documentID)
			return &spreadsheet.SheetInfo{SheetID: 5, Title: title}, nil
		},
	}

	resolution, err := fixedResolver(sheets, SheetResolverConfig{HubDocumentID: "hub-1"}).Resolve(context.Background(), nil, "CS101")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCreatedInHub, resolution.Outcome)
	assert.True(t, resolution.Handle.UsedFallbackHub)
	assert.Equal(t, "hub-1", resolution.Handle.DocumentID)
	assert.Equal(t, int64(5), resolution.Handle.SheetID)
	require.NotEmpty(t, resolution.Warnings)
	assert.Contains(t, resolution.Warnings[0], "shared hub")
}

func TestResolveUnauthorizedWithoutHubIsForbidden(t *testing.T) {
	sheets := &mockSheets{
		createDocument: func(ctx context.Context, title string) (*spreadsheet.DocumentInfo, error) {
			return nil, spreadsheet.ErrUnauthorized
		},
	}

	_, err := fixedResolver(sheets, SheetResolverConfig{}).Resolve(context.Background(), nil, "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestResolveHubTabTitleMismatchClaimsFreshTab(t *testing.T) {
	prior := &models.ExportResourceHandle{
		DocumentID:      "hub-1",
		SheetID:         3,
		SheetTitle:      "CS101",
		UsedFallbackHub: true,
	}
	sheets := &mockSheets{
		getSheets: func(ctx context.Context, documentID string) ([]spreadsheet.SheetInfo, error) {
			return []spreadsheet.SheetInfo{{SheetID: 3, Title: "MATH201"}}, nil
		},
		addSheet: func(ctx context.Context, documentID, title string) (*spreadsheet.SheetInfo, error) {
			return &spreadsheet.SheetInfo{SheetID: 9, Title: title}, nil
		},
	}

	resolution, err := fixedResolver(sheets, SheetResolverConfig{HubDocumentID: "hub-1"}).Resolve(context.Background(), prior, "CS101")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCreatedInHub, resolution.Outcome)
	assert.Equal(t, int64(9), resolution.Handle.SheetID)
	assert.Equal(t, "CS101", resolution.Handle.SheetTitle)
	require.NotEmpty(t, resolution.Warnings)
	assert.Contains(t, resolution.Warnings[0], "did not match expected title")
}

func TestNormalizeSheetTitle(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"CS101_A_2025-2026", 80, "CS101_A_2025-2026"},
		{"CS[101]: Lab/Section*?", 80, "CS101 LabSection"},
		{"  spaced \t out  ", 80, "spaced out"},
		{"with\x00control\x1fchars", 80, "withcontrolchars"},
		{"abcdefghij", 5, "abcde"},
		{"abc __", 4, "abc"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSheetTitle(tc.in, tc.maxLen), "input %q", tc.in)
	}
}
