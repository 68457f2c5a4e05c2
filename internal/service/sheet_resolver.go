package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/acadsync/gradebook-api/internal/models"
	appErrors "github.com/acadsync/gradebook-api/pkg/errors"
	"github.com/acadsync/gradebook-api/pkg/spreadsheet"
)

// ResolveOutcome labels the terminal state of a target resolution.
type ResolveOutcome string

const (
	OutcomeCreated      ResolveOutcome = "created"
	OutcomeReused       ResolveOutcome = "reused"
	OutcomeCreatedInHub ResolveOutcome = "created_in_hub"
)

// Resolution is a successfully resolved, writable spreadsheet target plus any
// non-fatal warnings gathered on the way there.
type Resolution struct {
	Handle   models.ExportResourceHandle
	Outcome  ResolveOutcome
	Warnings []string
}

// Reused reports whether the prior export's document was kept.
func (r *Resolution) Reused() bool {
	return r.Outcome == OutcomeReused
}

// SheetResolverConfig tunes target resolution.
type SheetResolverConfig struct {
	// HubDocumentID is the shared fallback document used when per-section
	// document creation is not authorized. Empty disables the fallback.
	HubDocumentID string
	// TitleMaxLen caps normalized title length. Defaults to 80.
	TitleMaxLen int
}

// SheetResolver idempotently resolves a writable spreadsheet target: reuse
// the previously stored handle, create a new document, or fall back to a tab
// in the shared hub document.
type SheetResolver struct {
	sheets spreadsheet.Service
	cfg    SheetResolverConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSheetResolver constructs a SheetResolver.
func NewSheetResolver(sheets spreadsheet.Service, cfg SheetResolverConfig, logger *zap.Logger) *SheetResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TitleMaxLen <= 0 {
		cfg.TitleMaxLen = 80
	}
	return &SheetResolver{sheets: sheets, cfg: cfg, logger: logger, now: time.Now}
}

// Resolve runs the find-or-create-or-fallback protocol for one export
// attempt. prior may be nil when the section has never exported this kind.
// Failure here is fatal to the export; stale or conflicting prior handles are
// downgraded to warnings and resolution continues on the create path.
func (r *SheetResolver) Resolve(ctx context.Context, prior *models.ExportResourceHandle, desiredTitle string) (*Resolution, error) {
	expected := NormalizeSheetTitle(desiredTitle, r.cfg.TitleMaxLen)
	if expected == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export title is empty after normalization")
	}

	var warnings []string
	if prior != nil {
		resolution, warning, err := r.resolvePrior(ctx, prior, expected)
		if err != nil {
			return nil, err
		}
		if resolution != nil {
			resolution.Warnings = append(warnings, resolution.Warnings...)
			return resolution, nil
		}
		// Prior handle could not be reused; continue as if it never existed.
		warnings = append(warnings, warning)
		r.logger.Warn("stored export handle not reusable",
			zap.String("document_id", prior.DocumentID),
			zap.String("reason", warning))
	}

	resolution, err := r.create(ctx, expected)
	if err != nil {
		return nil, err
	}
	resolution.Warnings = append(warnings, resolution.Warnings...)
	return resolution, nil
}

// resolvePrior verifies the stored handle still points at a live document and
// tab. Returns (nil, warning, nil) when the handle is stale and the caller
// should fall through to the create path.
func (r *SheetResolver) resolvePrior(ctx context.Context, prior *models.ExportResourceHandle, expected string) (*Resolution, string, error) {
	sheets, err := r.sheets.GetDocumentSheets(ctx, prior.DocumentID)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrNotFound) || errors.Is(err, spreadsheet.ErrUnauthorized) {
			return nil, fmt.Sprintf("previous export could not be reused: %v", err), nil
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to inspect stored spreadsheet")
	}

	var live *spreadsheet.SheetInfo
	for i := range sheets {
		if sheets[i].SheetID == prior.SheetID {
			live = &sheets[i]
			break
		}
	}
	if live == nil {
		return nil, fmt.Sprintf("stored sheet %q no longer exists in document", prior.SheetTitle), nil
	}

	if prior.UsedFallbackHub && live.Title != expected {
		// The hub tab likely belongs to a different section that collided on
		// title. Claim a fresh tab instead of overwriting it.
		tab, err := r.addSheetWithCandidates(ctx, prior.DocumentID, expected)
		if err != nil {
			return nil, "", err
		}
		handle := *prior
		handle.SheetID = tab.SheetID
		handle.SheetTitle = tab.Title
		return &Resolution{
			Handle:  handle,
			Outcome: OutcomeCreatedInHub,
			Warnings: []string{fmt.Sprintf(
				"hub tab %q did not match expected title %q; created new tab %q", live.Title, expected, tab.Title)},
		}, "", nil
	}

	if live.Title != prior.SheetTitle && !prior.UsedFallbackHub {
		return nil, fmt.Sprintf("stored sheet was renamed from %q to %q", prior.SheetTitle, live.Title), nil
	}

	handle := *prior
	handle.SheetTitle = live.Title
	return &Resolution{Handle: handle, Outcome: OutcomeReused}, "", nil
}

// create attempts a fresh document, falling back to a hub tab when the
// service denies document creation.
func (r *SheetResolver) create(ctx context.Context, expected string) (*Resolution, error) {
	var doc *spreadsheet.DocumentInfo
	var lastErr error
	for _, candidate := range r.titleCandidates(expected) {
		created, err := r.sheets.CreateDocument(ctx, candidate)
		if err == nil {
			doc = created
			doc.Title = candidate
			break
		}
		lastErr = err
		if errors.Is(err, spreadsheet.ErrDuplicateTitle) {
			continue
		}
		if errors.Is(err, spreadsheet.ErrUnauthorized) {
			return r.createInHub(ctx, expected, err)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create spreadsheet document")
	}
	if doc == nil {
		return nil, appErrors.Wrap(lastErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
			fmt.Sprintf("every title candidate for %q is already taken", expected))
	}

	return &Resolution{
		Handle: models.ExportResourceHandle{
			DocumentID:    doc.DocumentID,
			SheetID:       doc.SheetID,
			SheetTitle:    doc.SheetTitle,
			DocumentTitle: doc.Title,
			DocumentURL:   doc.URL,
		},
		Outcome: OutcomeCreated,
	}, nil
}

func (r *SheetResolver) createInHub(ctx context.Context, expected string, cause error) (*Resolution, error) {
	if r.cfg.HubDocumentID == "" {
		return nil, appErrors.Wrap(cause, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status,
			"spreadsheet service denied document creation and no fallback hub is configured")
	}
	tab, err := r.addSheetWithCandidates(ctx, r.cfg.HubDocumentID, expected)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Handle: models.ExportResourceHandle{
			DocumentID:      r.cfg.HubDocumentID,
			SheetID:         tab.SheetID,
			SheetTitle:      tab.Title,
			DocumentTitle:   expected,
			DocumentURL:     r.sheets.DocumentURL(r.cfg.HubDocumentID),
			UsedFallbackHub: true,
		},
		Outcome:  OutcomeCreatedInHub,
		Warnings: []string{fmt.Sprintf("document creation not authorized; exported into shared hub document: %v", cause)},
	}, nil
}

func (r *SheetResolver) addSheetWithCandidates(ctx context.Context, documentID, expected string) (*spreadsheet.SheetInfo, error) {
	var lastErr error
	for _, candidate := range r.titleCandidates(expected) {
		tab, err := r.sheets.AddSheet(ctx, documentID, candidate)
		if err == nil {
			return tab, nil
		}
		lastErr = err
		if errors.Is(err, spreadsheet.ErrDuplicateTitle) {
			continue
		}
		if errors.Is(err, spreadsheet.ErrNotFound) || errors.Is(err, spreadsheet.ErrUnauthorized) {
			return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "fallback hub document is not writable")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create sheet tab")
	}
	return nil, appErrors.Wrap(lastErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
		fmt.Sprintf("every title candidate for %q is already taken", expected))
}

// titleCandidates returns the deterministic sequence of titles to try: the
// normalized title verbatim, then the title suffixed with a date stamp.
func (r *SheetResolver) titleCandidates(expected string) []string {
	stamp := r.now().UTC().Format("20060102")
	suffix := "_" + stamp
	base := expected
	if len(base)+len(suffix) > r.cfg.TitleMaxLen {
		base = strings.TrimRight(base[:r.cfg.TitleMaxLen-len(suffix)], " _")
	}
	return []string{expected, base + suffix}
}

// NormalizeSheetTitle strips characters spreadsheet backends reject from tab
// and document titles, collapses whitespace runs, and caps the length.
func NormalizeSheetTitle(title string, maxLen int) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r < 0x20 || strings.ContainsRune(`[]:*?/\'`, r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	normalized := strings.Join(strings.Fields(b.String()), " ")
	if maxLen > 0 && len(normalized) > maxLen {
		normalized = strings.TrimRight(normalized[:maxLen], " _")
	}
	return normalized
}
