package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadsync/gradebook-api/internal/models"
)

// ScoreRepository reads recorded activity scores.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ListByActivities returns every recorded score for the given activities.
// A student/activity pair with no row simply has no recorded score.
func (r *ScoreRepository) ListByActivities(ctx context.Context, activityIDs []string) ([]models.ActivityScore, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, student_id, activity_id, score, recorded_at
        FROM activity_scores WHERE activity_id IN (?)`, activityIDs)
	if err != nil {
		return nil, fmt.Errorf("build score query: %w", err)
	}
	query = r.db.Rebind(query)
	var scores []models.ActivityScore
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}
