package sqlitestore

import (
	"context"
	"fmt"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

func (s *Store) ActionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return s.countByDate(ctx, "task_actions", "action_date", since)
}

func (s *Store) NoteCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return s.countByDate(ctx, "notes", "created_date", since)
}

func (s *Store) TaskCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return s.countByDate(ctx, "tasks", "completion_date", since)
}

func (s *Store) GoalCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error) {
	return s.countByDate(ctx, "goals", "completion_date", since)
}

// countByDate groups rows of table by a date column on or after since.
// NULL dates never satisfy the comparison.
func (s *Store) countByDate(ctx context.Context, table, column string, since dates.Date) ([]models.DateCount, error) {
	var counts []models.DateCount
	err := s.conn(ctx).
		Table(table).
		Select(column+" AS date, COUNT(*) AS count").
		Where(column+" >= ?", since).
		Group(column).
		Order(column).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("%s counts: %w", table, err)
	}
	return counts, nil
}
