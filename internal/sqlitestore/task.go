package sqlitestore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if !completionConsistent(task.Completed, task.CompletionDate) {
		return fmt.Errorf("create task: completion date must match completed flag: %w", models.ErrInvalidArgs)
	}
	if err := s.checkLinks(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	if err := s.conn(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := s.conn(ctx).Take(&task, id).Error; err != nil {
		return nil, notFound(err, models.ErrTaskNotFound)
	}
	return &task, nil
}

func (s *Store) ListTasks(ctx context.Context, includeCompleted bool) ([]*models.Task, error) {
	q := s.conn(ctx).Order("completed ASC, due_date ASC NULLS LAST, id ASC")
	if !includeCompleted {
		q = q.Where("completed = ?", false)
	}
	var tasks []*models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	if !completionConsistent(task.Completed, task.CompletionDate) {
		return fmt.Errorf("update task: completion date must match completed flag: %w", models.ErrInvalidArgs)
	}
	if err := s.checkLinks(ctx, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	res := s.conn(ctx).Model(&models.Task{ID: task.ID}).Select("*").Omit("id").Updates(task)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

func (s *Store) SetCompletion(ctx context.Context, id int64, completed bool, on *dates.Date) error {
	if !completionConsistent(completed, on) {
		return fmt.Errorf("set completion: %w", models.ErrInvalidArgs)
	}
	res := s.conn(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]any{
		"completed":       completed,
		"completion_date": dateValue(on),
	})
	if res.Error != nil {
		return fmt.Errorf("set completion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes the task with its actions and detaches its events.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Action{}).Error; err != nil {
			return fmt.Errorf("delete task actions: %w", err)
		}
		if err := tx.Model(&models.Event{}).Where("task_id = ?", id).Update("task_id", nil).Error; err != nil {
			return fmt.Errorf("detach task events: %w", err)
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrTaskNotFound
		}
		return nil
	})
}

func (s *Store) OverdueTasks(ctx context.Context, today dates.Date) ([]*models.Task, error) {
	var tasks []*models.Task
	err := s.conn(ctx).
		Where("completed = ? AND due_date IS NOT NULL AND due_date < ?", false, today).
		Order("due_date ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("overdue tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) PriorityTask(ctx context.Context) (*models.Task, error) {
	var task models.Task
	err := s.conn(ctx).
		Where("completed = ? AND priority = ?", false, true).
		Order("due_date ASC NULLS LAST, id ASC").
		Take(&task).Error
	if err != nil {
		return nil, notFound(err, models.ErrTaskNotFound)
	}
	return &task, nil
}

func (s *Store) SetLastNotification(ctx context.Context, id int64, on dates.Date) error {
	res := s.conn(ctx).Model(&models.Task{}).Where("id = ?", id).Update("last_notification", on)
	if res.Error != nil {
		return fmt.Errorf("set last notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

// checkLinks stands in for the goal and habit foreign keys.
func (s *Store) checkLinks(ctx context.Context, task *models.Task) error {
	if task.GoalID != nil {
		if err := s.conn(ctx).Take(&models.Goal{}, *task.GoalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("goal %d: %w", *task.GoalID, models.ErrInvalidArgs)
			}
			return err
		}
	}
	if task.HabitID != nil {
		if err := s.conn(ctx).Take(&models.Habit{}, *task.HabitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("habit %d: %w", *task.HabitID, models.ErrInvalidArgs)
			}
			return err
		}
	}
	return nil
}
