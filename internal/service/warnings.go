package service

import "fmt"

// WarningList accumulates the non-fatal findings of a pipeline run. Each
// stage appends explicitly; nothing is thrown away silently.
type WarningList []string

// Addf records a formatted warning.
func (w *WarningList) Addf(format string, args ...interface{}) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

// Extend appends warnings collected by an earlier stage.
func (w *WarningList) Extend(warnings []string) {
	*w = append(*w, warnings...)
}

// BestEffort runs a cosmetic step and converts its failure into a warning.
// Returns true when the step succeeded.
func (w *WarningList) BestEffort(step string, fn func() error) bool {
	if err := fn(); err != nil {
		w.Addf("%s: %v", step, err)
		return false
	}
	return true
}

// PersistFailure identifies one student whose computed grade row could not be
// stored.
type PersistFailure struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

// PersistSummary aggregates the per-student outcomes of bulk grade
// persistence so callers can inspect which students failed, not just a count.
type PersistSummary struct {
	Succeeded int              `json:"succeeded"`
	Failed    []PersistFailure `json:"failed,omitempty"`
}
