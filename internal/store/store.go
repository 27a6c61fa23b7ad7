// Package store declares the persistence contract shared by the PostgreSQL
// and SQLite backends.
package store

import (
	"context"
	"time"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	// ListTasks orders pending tasks first, then by due date (nulls last), then id.
	ListTasks(ctx context.Context, includeCompleted bool) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	// SetCompletion writes completed and completion_date in one statement.
	SetCompletion(ctx context.Context, id int64, completed bool, on *dates.Date) error
	DeleteTask(ctx context.Context, id int64) error
	OverdueTasks(ctx context.Context, today dates.Date) ([]*models.Task, error)
	PriorityTask(ctx context.Context) (*models.Task, error)
	SetLastNotification(ctx context.Context, id int64, on dates.Date) error
}

type ActionStore interface {
	CreateAction(ctx context.Context, action *models.Action) error
	GetAction(ctx context.Context, id int64) (*models.Action, error)
	// ListActions returns newest first.
	ListActions(ctx context.Context, taskID int64) ([]*models.Action, error)
	DeleteAction(ctx context.Context, id int64) error
}

type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoal(ctx context.Context, id int64) (*models.Goal, error)
	// CurrentGoal is the uncompleted goal with the highest id.
	CurrentGoal(ctx context.Context) (*models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) error
}

type NoteStore interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	ListNotes(ctx context.Context) ([]*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
}

type HabitStore interface {
	CreateHabit(ctx context.Context, habit *models.Habit) error
	ListHabits(ctx context.Context) ([]*models.Habit, error)
	// HabitsWithoutOpenTask returns habits that have no pending task linked to them.
	HabitsWithoutOpenTask(ctx context.Context) ([]*models.Habit, error)
	DeleteHabit(ctx context.Context, id int64) error
}

type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	EventsBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
}

// ActivityStore supplies the four per-day counts the heatmap combines.
type ActivityStore interface {
	ActionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
	NoteCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
	TaskCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
	GoalCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
}

type Store interface {
	TaskStore
	ActionStore
	GoalStore
	NoteStore
	HabitStore
	EventStore
	ActivityStore

	// WithTx runs fn against a transaction-scoped Store. Any error rolls back.
	WithTx(ctx context.Context, fn func(Store) error) error
	Close() error
}
