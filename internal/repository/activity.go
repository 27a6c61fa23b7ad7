package repository

import (
	"context"
	"fmt"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

type ActivityRepository struct {
	q querier
}

func NewActivityRepository(q querier) *ActivityRepository {
	return &ActivityRepository{q: q}
}

func (r *ActivityRepository) ActionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return r.countByDate(ctx, "action counts",
		`SELECT action_date, COUNT(*) FROM task_actions
		 WHERE action_date >= $1 GROUP BY action_date ORDER BY action_date`, since)
}

func (r *ActivityRepository) NoteCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return r.countByDate(ctx, "note counts",
		`SELECT created_date, COUNT(*) FROM notes
		 WHERE created_date >= $1 GROUP BY created_date ORDER BY created_date`, since)
}

func (r *ActivityRepository) TaskCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return r.countByDate(ctx, "task completion counts",
		`SELECT completion_date, COUNT(*) FROM tasks
		 WHERE completion_date IS NOT NULL AND completion_date >= $1
		 GROUP BY completion_date ORDER BY completion_date`, since)
}

func (r *ActivityRepository) GoalCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return r.countByDate(ctx, "goal completion counts",
		`SELECT completion_date, COUNT(*) FROM goals
		 WHERE completion_date IS NOT NULL AND completion_date >= $1
		 GROUP BY completion_date ORDER BY completion_date`, since)
}

func (r *ActivityRepository) countByDate(ctx context.Context, what, query string, since dates.Date) ([]models.DateCount, error) {
	rows, err := r.q.Query(ctx, query, since.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	counts, err := collectCounts(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return counts, nil
}
