package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadsync/gradebook-api/internal/models"
)

// ComputedGradeRepository persists derived grade records.
type ComputedGradeRepository struct {
	db *sqlx.DB
}

// NewComputedGradeRepository creates a new computed grade repository.
func NewComputedGradeRepository(db *sqlx.DB) *ComputedGradeRepository {
	return &ComputedGradeRepository{db: db}
}

// Upsert inserts or fully replaces the computed grade of one student in one
// section. Every field is rewritten; the record is never partially updated.
func (r *ComputedGradeRepository) Upsert(ctx context.Context, grade *models.ComputedGrade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	if grade.ComputedAt.IsZero() {
		grade.ComputedAt = time.Now().UTC()
	}
	const query = `INSERT INTO computed_grades
        (id, student_id, section_id,
         mid_class_standing, mid_laboratory, mid_major_output, mid_percent, mid_equivalent,
         fin_class_standing, fin_laboratory, fin_major_output, fin_percent, fin_equivalent,
         final_grade_point, remarks, computed_at)
        VALUES (:id, :student_id, :section_id,
         :mid_class_standing, :mid_laboratory, :mid_major_output, :mid_percent, :mid_equivalent,
         :fin_class_standing, :fin_laboratory, :fin_major_output, :fin_percent, :fin_equivalent,
         :final_grade_point, :remarks, :computed_at)
        ON CONFLICT (student_id, section_id)
        DO UPDATE SET mid_class_standing = EXCLUDED.mid_class_standing,
            mid_laboratory = EXCLUDED.mid_laboratory, mid_major_output = EXCLUDED.mid_major_output,
            mid_percent = EXCLUDED.mid_percent, mid_equivalent = EXCLUDED.mid_equivalent,
            fin_class_standing = EXCLUDED.fin_class_standing, fin_laboratory = EXCLUDED.fin_laboratory,
            fin_major_output = EXCLUDED.fin_major_output, fin_percent = EXCLUDED.fin_percent,
            fin_equivalent = EXCLUDED.fin_equivalent, final_grade_point = EXCLUDED.final_grade_point,
            remarks = EXCLUDED.remarks, computed_at = EXCLUDED.computed_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("upsert computed grade: %w", err)
	}
	return nil
}

// ListBySection returns every computed grade of a section.
func (r *ComputedGradeRepository) ListBySection(ctx context.Context, sectionID string) ([]models.ComputedGrade, error) {
	const query = `SELECT id, student_id, section_id,
        mid_class_standing, mid_laboratory, mid_major_output, mid_percent, mid_equivalent,
        fin_class_standing, fin_laboratory, fin_major_output, fin_percent, fin_equivalent,
        final_grade_point, remarks, computed_at
        FROM computed_grades WHERE section_id = $1`
	var grades []models.ComputedGrade
	if err := r.db.SelectContext(ctx, &grades, query, sectionID); err != nil {
		return nil, fmt.Errorf("list computed grades: %w", err)
	}
	return grades, nil
}
