package models

import (
	"time"

	"github.com/hray3182/melgar/internal/dates"
)

// Event is a calendar block created for a task by the overdue job.
type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	TaskID      *int64    `gorm:"index" json:"task_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}

// Duration returns the event length in minutes.
func (e *Event) Duration() int {
	return int(e.EndTime.Sub(e.StartTime).Minutes())
}

// Habit spawns a task whenever it has no open one. RecurrenceRule is an RFC 5545 RRULE.
type Habit struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Description    string     `gorm:"not null" json:"description"`
	RecurrenceRule string     `gorm:"not null" json:"recurrence_rule"`
	StartDate      dates.Date `gorm:"not null" json:"start_date"`
}

func (Habit) TableName() string {
	return "habits"
}
