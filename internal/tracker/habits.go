package tracker

import (
	"context"
	"fmt"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/rrule"
	"github.com/hray3182/melgar/internal/store"
)

// AddHabit registers a recurring habit. A nil start means today.
func (s *Service) AddHabit(ctx context.Context, description, rule string, start *dates.Date) (*models.Habit, error) {
	description, ok := required(description)
	if !ok {
		return nil, fmt.Errorf("habit description is required: %w", models.ErrInvalidArgs)
	}
	if err := rrule.Validate(rule); err != nil {
		return nil, fmt.Errorf("%v: %w", err, models.ErrInvalidArgs)
	}

	habit := &models.Habit{Description: description, RecurrenceRule: rule, StartDate: s.Today()}
	if start != nil {
		habit.StartDate = *start
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *Service) Habits(ctx context.Context) ([]*models.Habit, error) {
	return s.store.ListHabits(ctx)
}

func (s *Service) DeleteHabit(ctx context.Context, id int64) error {
	if id <= 0 {
		return models.ErrInvalidArgs
	}
	return s.store.DeleteHabit(ctx, id)
}

// CreateHabitTasks gives every habit without a pending task a new one, due on
// the habit's next occurrence on or after today. Habits whose rule is broken
// or exhausted are skipped.
func (s *Service) CreateHabitTasks(ctx context.Context) ([]*models.Task, error) {
	today := s.Today()

	var created []*models.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		habits, err := tx.HabitsWithoutOpenTask(ctx)
		if err != nil {
			return err
		}
		for _, habit := range habits {
			due, err := rrule.NextOnOrAfter(habit.RecurrenceRule, habit.StartDate, today)
			if err != nil {
				s.log.Warn("skipping habit with invalid rule", "habit_id", habit.ID, "rule", habit.RecurrenceRule, "error", err)
				continue
			}
			if due == nil {
				s.log.Debug("habit has no further occurrences", "habit_id", habit.ID)
				continue
			}

			habitID := habit.ID
			task := &models.Task{Description: habit.Description, DueDate: due, HabitID: &habitID}
			if err := tx.CreateTask(ctx, task); err != nil {
				return fmt.Errorf("create task for habit %d: %w", habit.ID, err)
			}
			created = append(created, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
