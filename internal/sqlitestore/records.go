package sqlitestore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hray3182/melgar/internal/models"
)

func (s *Store) CreateAction(ctx context.Context, action *models.Action) error {
	if err := s.conn(ctx).Take(&models.Task{}, action.TaskID).Error; err != nil {
		return notFound(err, models.ErrTaskNotFound)
	}
	if err := s.conn(ctx).Create(action).Error; err != nil {
		return fmt.Errorf("create action: %w", err)
	}
	return nil
}

func (s *Store) GetAction(ctx context.Context, id int64) (*models.Action, error) {
	var action models.Action
	if err := s.conn(ctx).Take(&action, id).Error; err != nil {
		return nil, notFound(err, models.ErrActionNotFound)
	}
	return &action, nil
}

func (s *Store) ListActions(ctx context.Context, taskID int64) ([]*models.Action, error) {
	var actions []*models.Action
	err := s.conn(ctx).
		Where("task_id = ?", taskID).
		Order("action_date DESC, id DESC").
		Find(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}

func (s *Store) DeleteAction(ctx context.Context, id int64) error {
	res := s.conn(ctx).Delete(&models.Action{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete action: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrActionNotFound
	}
	return nil
}

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if !completionConsistent(goal.Completed, goal.CompletionDate) {
		return fmt.Errorf("create goal: %w", models.ErrInvalidArgs)
	}
	if err := s.conn(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, id int64) (*models.Goal, error) {
	var goal models.Goal
	if err := s.conn(ctx).Take(&goal, id).Error; err != nil {
		return nil, notFound(err, models.ErrGoalNotFound)
	}
	return &goal, nil
}

func (s *Store) CurrentGoal(ctx context.Context) (*models.Goal, error) {
	var goal models.Goal
	err := s.conn(ctx).Where("completed = ?", false).Order("id DESC").Take(&goal).Error
	if err != nil {
		return nil, notFound(err, models.ErrGoalNotFound)
	}
	return &goal, nil
}

func (s *Store) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	if !completionConsistent(goal.Completed, goal.CompletionDate) {
		return fmt.Errorf("update goal: %w", models.ErrInvalidArgs)
	}
	res := s.conn(ctx).Model(&models.Goal{ID: goal.ID}).
		Select("description", "target_date", "completed", "completion_date").
		Updates(goal)
	if res.Error != nil {
		return fmt.Errorf("update goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrGoalNotFound
	}
	return nil
}

func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	if err := s.conn(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (s *Store) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note
	if err := s.conn(ctx).Take(&note, id).Error; err != nil {
		return nil, notFound(err, models.ErrNoteNotFound)
	}
	return &note, nil
}

func (s *Store) ListNotes(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note
	if err := s.conn(ctx).Order("created_date DESC, id DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *Store) UpdateNote(ctx context.Context, note *models.Note) error {
	res := s.conn(ctx).Model(&models.Note{ID: note.ID}).Select("title", "note", "type").Updates(note)
	if res.Error != nil {
		return fmt.Errorf("update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	res := s.conn(ctx).Delete(&models.Note{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

func (s *Store) CreateHabit(ctx context.Context, habit *models.Habit) error {
	if err := s.conn(ctx).Create(habit).Error; err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

func (s *Store) ListHabits(ctx context.Context) ([]*models.Habit, error) {
	var habits []*models.Habit
	if err := s.conn(ctx).Order("id").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (s *Store) HabitsWithoutOpenTask(ctx context.Context) ([]*models.Habit, error) {
	var habits []*models.Habit
	err := s.conn(ctx).
		Where("NOT EXISTS (SELECT 1 FROM tasks t WHERE t.habit_id = habits.id AND t.completed = ?)", false).
		Order("id").
		Find(&habits).Error
	if err != nil {
		return nil, fmt.Errorf("habits without open task: %w", err)
	}
	return habits, nil
}

// DeleteHabit removes the habit and unlinks the tasks it spawned.
func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("habit_id = ?", id).Update("habit_id", nil).Error; err != nil {
			return fmt.Errorf("unlink habit tasks: %w", err)
		}
		res := tx.Delete(&models.Habit{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete habit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrHabitNotFound
		}
		return nil
	})
}

// CreateEvent stores times in UTC so text comparisons in EventsBetween hold.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	event.StartTime = event.StartTime.UTC()
	event.EndTime = event.EndTime.UTC()
	if err := s.conn(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) EventsBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	var events []*models.Event
	err := s.conn(ctx).
		Where("start_time >= ? AND start_time < ?", from.UTC(), to.UTC()).
		Order("start_time ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("events between: %w", err)
	}
	return events, nil
}
