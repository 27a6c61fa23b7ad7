package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/store"
)

const resetAction = "Reset due date to today"

// NewTask holds everything a task is created with.
type NewTask struct {
	Description string
	DueDate     *dates.Date
	NextAction  string
	Priority    bool
	// LinkGoal attaches the task to the current goal, if there is one.
	LinkGoal bool
}

// AddTask creates a pending task in a single write.
func (s *Service) AddTask(ctx context.Context, in NewTask) (*models.Task, error) {
	description, ok := required(in.Description)
	if !ok {
		return nil, fmt.Errorf("task description is required: %w", models.ErrInvalidArgs)
	}

	task := &models.Task{
		Description: description,
		DueDate:     in.DueDate,
		NextAction:  strings.TrimSpace(in.NextAction),
		Priority:    in.Priority,
	}
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if in.LinkGoal {
			goal, err := tx.CurrentGoal(ctx)
			switch {
			case err == nil:
				task.GoalID = &goal.ID
			case !errors.Is(err, models.ErrGoalNotFound):
				return err
			}
		}
		return tx.CreateTask(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) Task(ctx context.Context, id int64) (*models.Task, error) {
	if id <= 0 {
		return nil, models.ErrInvalidArgs
	}
	return s.store.GetTask(ctx, id)
}

func (s *Service) Tasks(ctx context.Context, includeCompleted bool) ([]*models.Task, error) {
	return s.store.ListTasks(ctx, includeCompleted)
}

// ToggleTask flips a task between pending and completed. Completing stamps
// today as the completion date; reopening clears it.
func (s *Service) ToggleTask(ctx context.Context, id int64) (*models.Task, error) {
	var updated *models.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}

		var on *dates.Date
		if !task.Completed {
			today := s.Today()
			on = &today
		}
		if err := tx.SetCompletion(ctx, id, !task.Completed, on); err != nil {
			return err
		}
		task.Completed = !task.Completed
		task.CompletionDate = on
		updated = task
		return nil
	})
	return updated, err
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return models.ErrInvalidArgs
	}
	return s.store.DeleteTask(ctx, id)
}

// SetNextAction replaces the task's next action; an empty text clears it.
func (s *Service) SetNextAction(ctx context.Context, id int64, text string) (*models.Task, error) {
	return s.updateTask(ctx, id, func(task *models.Task) error {
		task.NextAction = strings.TrimSpace(text)
		return nil
	})
}

func (s *Service) TogglePriority(ctx context.Context, id int64) (*models.Task, error) {
	return s.updateTask(ctx, id, func(task *models.Task) error {
		task.Priority = !task.Priority
		return nil
	})
}

// PriorityTask returns the first pending priority task or ErrTaskNotFound.
func (s *Service) PriorityTask(ctx context.Context) (*models.Task, error) {
	return s.store.PriorityTask(ctx)
}

// Snooze moves the due date forward by days, records action in the task's
// log and, when nextAction is not empty, replaces the next action. Either
// all of it is saved or none of it.
func (s *Service) Snooze(ctx context.Context, id int64, days int, action, nextAction string) (*models.Task, error) {
	action, ok := required(action)
	if !ok {
		return nil, fmt.Errorf("an action description is required to snooze a task: %w", models.ErrInvalidArgs)
	}

	var updated *models.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		task, err := s.snooze(ctx, tx, id, days)
		if err != nil {
			return err
		}
		if next := strings.TrimSpace(nextAction); next != "" {
			task.NextAction = next
			if err := tx.UpdateTask(ctx, task); err != nil {
				return err
			}
		}
		if err := tx.CreateAction(ctx, &models.Action{TaskID: id, Description: action, Date: s.Today()}); err != nil {
			return err
		}
		updated = task
		return nil
	})
	return updated, err
}

func (s *Service) snooze(ctx context.Context, tx store.Store, id int64, days int) (*models.Task, error) {
	task, err := tx.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	due, err := s.engine.Snooze(task.DueDate, task.Completed, days, s.Today())
	if err != nil {
		return nil, err
	}
	task.DueDate = &due
	if err := tx.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ResetDueDate moves the due date to today and logs it as an action.
func (s *Service) ResetDueDate(ctx context.Context, id int64) (*models.Task, error) {
	var updated *models.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		today := s.Today()
		due, err := s.engine.ResetToToday(task.DueDate, task.Completed, today)
		if err != nil {
			return err
		}
		task.DueDate = &due
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		if err := tx.CreateAction(ctx, &models.Action{TaskID: id, Description: resetAction, Date: today}); err != nil {
			return err
		}
		updated = task
		return nil
	})
	return updated, err
}

// History returns the task with its actions, newest first.
func (s *Service) History(ctx context.Context, id int64) (*models.Task, []*models.Action, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	actions, err := s.store.ListActions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return task, actions, nil
}

func (s *Service) OverdueTasks(ctx context.Context) ([]*models.Task, error) {
	return s.store.OverdueTasks(ctx, s.Today())
}

// AddAction logs progress on a task. A non-zero snoozeDays also snoozes the
// task in the same transaction.
func (s *Service) AddAction(ctx context.Context, taskID int64, description string, snoozeDays int) (*models.Action, error) {
	description, ok := required(description)
	if !ok {
		return nil, fmt.Errorf("action description is required: %w", models.ErrInvalidArgs)
	}

	action := &models.Action{TaskID: taskID, Description: description, Date: s.Today()}
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.CreateAction(ctx, action); err != nil {
			return err
		}
		if snoozeDays != 0 {
			if _, err := s.snooze(ctx, tx, taskID, snoozeDays); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// DeleteAction removes an action and returns what is left of its task's log.
func (s *Service) DeleteAction(ctx context.Context, id int64) ([]*models.Action, error) {
	action, err := s.store.GetAction(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteAction(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListActions(ctx, action.TaskID)
}

func (s *Service) Actions(ctx context.Context, taskID int64) ([]*models.Action, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.ListActions(ctx, taskID)
}

func (s *Service) updateTask(ctx context.Context, id int64, mutate func(*models.Task) error) (*models.Task, error) {
	var updated *models.Task
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(task); err != nil {
			return err
		}
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	return updated, err
}
