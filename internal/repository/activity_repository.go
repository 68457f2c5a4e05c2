package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadsync/gradebook-api/internal/models"
)

// ActivityRepository reads scoreable activities. The export engine never
// writes activities; instructors create them elsewhere.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns the activities of a subject offering, optionally limited to
// one term, in creation order.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	query := `SELECT id, subject_id, school_year, category, term, title, max_score, created_at
        FROM activities WHERE subject_id = $1 AND school_year = $2`
	args := []interface{}{filter.SubjectID, filter.SchoolYear}
	if filter.Term != nil {
		query += fmt.Sprintf(" AND term = $%d", len(args)+1)
		args = append(args, *filter.Term)
	}
	query += " ORDER BY created_at ASC"
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}
