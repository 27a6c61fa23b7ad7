package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hray3182/melgar/internal/models"
)

type EventRepository struct {
	q querier
}

func NewEventRepository(q querier) *EventRepository {
	return &EventRepository{q: q}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO events (task_id, title, description, start_time, end_time, timezone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		event.TaskID, event.Title, event.Description, event.StartTime, event.EndTime, event.Timezone,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create event: %w", models.ErrTaskNotFound)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) EventsBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, task_id, title, description, start_time, end_time, timezone, created_at
		 FROM events WHERE start_time >= $1 AND start_time < $2
		 ORDER BY start_time ASC, id ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("events between: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.TaskID, &event.Title, &event.Description,
			&event.StartTime, &event.EndTime, &event.Timezone, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
