package models

import (
	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/duedate"
)

type Task struct {
	ID               int64       `gorm:"primaryKey" json:"id"`
	Description      string      `gorm:"not null" json:"description"`
	DueDate          *dates.Date `json:"due_date"`
	Completed        bool        `gorm:"not null;default:false" json:"completed"`
	CompletionDate   *dates.Date `json:"completion_date"`
	NextAction       string      `json:"next_action"`
	Priority         bool        `gorm:"not null;default:false" json:"priority"`
	GoalID           *int64      `gorm:"index" json:"goal_id"`
	HabitID          *int64      `gorm:"index" json:"habit_id"`
	LastNotification *dates.Date `json:"last_notification"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) IsOverdue(today dates.Date) bool {
	return duedate.IsOverdue(t.DueDate, t.Completed, today)
}

// NotifiedOn reports whether a notification already went out on or after day.
func (t *Task) NotifiedOn(day dates.Date) bool {
	return t.LastNotification != nil && !t.LastNotification.Before(day)
}

func (t *Task) Status() string {
	if t.Completed {
		return "COMPLETED"
	}
	return "PENDING"
}

// Action is one entry in a task's progress log.
type Action struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	TaskID      int64      `gorm:"not null;index" json:"task_id"`
	Description string     `gorm:"column:action_description;not null" json:"action_description"`
	Date        dates.Date `gorm:"column:action_date;not null;index" json:"action_date"`
}

func (Action) TableName() string {
	return "task_actions"
}
