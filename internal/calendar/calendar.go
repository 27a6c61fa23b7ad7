// Package calendar blocks out time for tasks that need attention.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/hray3182/melgar/internal/models"
)

const DefaultDuration = 30 * time.Minute

type Creator interface {
	CreateEvent(ctx context.Context, task *models.Task, start time.Time) error
}

// EventStore is the persistence StoreCreator writes to.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	EventsBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
}

// StoreCreator records events in the local event table.
type StoreCreator struct {
	events   EventStore
	duration time.Duration
}

func NewStoreCreator(events EventStore, duration time.Duration) *StoreCreator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &StoreCreator{events: events, duration: duration}
}

// CreateEvent is a no-op when task already has an event at start, so a
// repeated run books each slot once.
func (c *StoreCreator) CreateEvent(ctx context.Context, task *models.Task, start time.Time) error {
	booked, err := c.events.EventsBetween(ctx, start, start.Add(time.Second))
	if err != nil {
		return fmt.Errorf("look up events for task %d: %w", task.ID, err)
	}
	for _, ev := range booked {
		if ev.TaskID != nil && *ev.TaskID == task.ID && ev.StartTime.Equal(start) {
			return nil
		}
	}

	event := NewEvent(task, start, c.duration)
	if err := c.events.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("create event for task %d: %w", task.ID, err)
	}
	return nil
}

// NewEvent lays out the event for task starting at start.
func NewEvent(task *models.Task, start time.Time, duration time.Duration) *models.Event {
	taskID := task.ID
	return &models.Event{
		TaskID:      &taskID,
		Title:       "Task: " + task.Description,
		Description: "Next Action: " + task.NextAction,
		StartTime:   start,
		EndTime:     start.Add(duration),
		Timezone:    start.Location().String(),
	}
}

// At returns the wall-clock time on day's date at a fractional hour, so 13.5 is 13:30.
func At(day time.Time, hour float64) time.Time {
	h := int(hour)
	m := int((hour - float64(h)) * 60)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
}
