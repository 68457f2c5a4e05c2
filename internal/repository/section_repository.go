package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadsync/gradebook-api/internal/models"
)

// SectionRepository handles section, roster and export-handle persistence.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// FindWithRoster loads a section together with its roster and any stored
// export handles. Returns sql.ErrNoRows when the section does not exist.
func (r *SectionRepository) FindWithRoster(ctx context.Context, id string) (*models.Section, error) {
	const sectionQuery = `SELECT s.id, s.code, s.subject_id, sub.code AS subject_code, sub.title AS subject_title,
        s.school_year, s.instructor_id, u.full_name AS instructor_name,
        s.ws_class_standing, s.ws_laboratory, s.ws_major_output,
        COALESCE(s.sched_day, '') AS sched_day, COALESCE(s.sched_time, '') AS sched_time,
        COALESCE(s.sched_room, '') AS sched_room, COALESCE(s.chairperson, '') AS chairperson,
        COALESCE(s.dean, '') AS dean, s.created_at, s.updated_at
        FROM sections s
        JOIN subjects sub ON sub.id = s.subject_id
        JOIN users u ON u.id = s.instructor_id
        WHERE s.id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, sectionQuery, id); err != nil {
		return nil, err
	}

	const rosterQuery = `SELECT st.id, st.student_no, st.full_name
        FROM students st
        JOIN section_students ss ON ss.student_id = st.id
        WHERE ss.section_id = $1
        ORDER BY st.full_name ASC`
	if err := r.db.SelectContext(ctx, &section.Students, rosterQuery, id); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	const handleQuery = `SELECT id, section_id, kind, document_id, sheet_id, sheet_title,
        document_title, document_url, used_fallback_hub, last_exported_at
        FROM section_export_handles WHERE section_id = $1`
	var handles []models.ExportResourceHandle
	if err := r.db.SelectContext(ctx, &handles, handleQuery, id); err != nil {
		return nil, fmt.Errorf("load export handles: %w", err)
	}
	if len(handles) > 0 {
		section.Handles = make(map[models.ExportKind]*models.ExportResourceHandle, len(handles))
		for i := range handles {
			section.Handles[handles[i].Kind] = &handles[i]
		}
	}
	return &section, nil
}

// SaveExportMetadata upserts the export handle for one kind and records the
// schedule descriptor printed on the sheet. Both writes share a transaction.
func (r *SectionRepository) SaveExportMetadata(ctx context.Context, sectionID string, handle *models.ExportResourceHandle, schedule models.ScheduleInfo) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if handle.ID == "" {
		handle.ID = uuid.NewString()
	}
	handle.SectionID = sectionID
	const handleQuery = `INSERT INTO section_export_handles
        (id, section_id, kind, document_id, sheet_id, sheet_title, document_title, document_url, used_fallback_hub, last_exported_at)
        VALUES (:id, :section_id, :kind, :document_id, :sheet_id, :sheet_title, :document_title, :document_url, :used_fallback_hub, :last_exported_at)
        ON CONFLICT (section_id, kind)
        DO UPDATE SET document_id = EXCLUDED.document_id, sheet_id = EXCLUDED.sheet_id,
            sheet_title = EXCLUDED.sheet_title, document_title = EXCLUDED.document_title,
            document_url = EXCLUDED.document_url, used_fallback_hub = EXCLUDED.used_fallback_hub,
            last_exported_at = EXCLUDED.last_exported_at`
	if _, err := tx.NamedExecContext(ctx, handleQuery, handle); err != nil {
		return fmt.Errorf("upsert export handle: %w", err)
	}

	const scheduleQuery = `UPDATE sections SET sched_day = $1, sched_time = $2, sched_room = $3,
        chairperson = $4, dean = $5, updated_at = $6 WHERE id = $7`
	if _, err := tx.ExecContext(ctx, scheduleQuery,
		schedule.Day, schedule.Time, schedule.Room, schedule.Chairperson, schedule.Dean,
		time.Now().UTC(), sectionID); err != nil {
		return fmt.Errorf("update section schedule: %w", err)
	}

	return tx.Commit()
}
