package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

type HabitRepository struct {
	q querier
}

func NewHabitRepository(q querier) *HabitRepository {
	return &HabitRepository{q: q}
}

func (r *HabitRepository) CreateHabit(ctx context.Context, habit *models.Habit) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO habits (description, recurrence_rule, start_date) VALUES ($1, $2, $3)
		 RETURNING id`,
		habit.Description, habit.RecurrenceRule, habit.StartDate.String(),
	).Scan(&habit.ID)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

func (r *HabitRepository) ListHabits(ctx context.Context) ([]*models.Habit, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, description, recurrence_rule, start_date FROM habits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return collectHabits(rows)
}

func (r *HabitRepository) HabitsWithoutOpenTask(ctx context.Context) ([]*models.Habit, error) {
	rows, err := r.q.Query(ctx,
		`SELECT h.id, h.description, h.recurrence_rule, h.start_date FROM habits h
		 WHERE NOT EXISTS (
			SELECT 1 FROM tasks t WHERE t.habit_id = h.id AND t.completed = FALSE
		 )
		 ORDER BY h.id`)
	if err != nil {
		return nil, fmt.Errorf("habits without open task: %w", err)
	}
	return collectHabits(rows)
}

func (r *HabitRepository) DeleteHabit(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrHabitNotFound
	}
	return nil
}

func collectHabits(rows pgx.Rows) ([]*models.Habit, error) {
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit := &models.Habit{}
		var start time.Time
		if err := rows.Scan(&habit.ID, &habit.Description, &habit.RecurrenceRule, &start); err != nil {
			return nil, err
		}
		habit.StartDate = dates.FromTime(start)
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}
