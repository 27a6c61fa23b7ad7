// Package notify pushes due-task reminders to a phone.
package notify

import (
	"context"
	"io"
	"log/slog"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

type Status int

const (
	StatusSent Status = iota
	StatusAlreadySent
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSent:
		return "sent"
	case StatusAlreadySent:
		return "already sent"
	default:
		return "failed"
	}
}

// Outcome is the result of one Send. Reason is set when the send failed.
type Outcome struct {
	Status Status
	Reason string
}

func (o Outcome) Sent() bool {
	return o.Status == StatusSent
}

type Sender interface {
	Send(ctx context.Context, task *models.Task, today dates.Date) Outcome
}

// Message is the transport-neutral content of a reminder.
type Message struct {
	Title      string
	Due        string
	NextAction string
	Status     string
	Priority   string
	Tags       []string
}

const (
	PriorityHigh    = "high"
	PriorityDefault = "default"
)

var defaultTags = []string{"calendar", "phone"}

// Compose renders the reminder for task. Overdue tasks get high priority.
func Compose(task *models.Task, today dates.Date) Message {
	priority := PriorityDefault
	if task.IsOverdue(today) {
		priority = PriorityHigh
	}
	return Message{
		Title:      "Task Due: " + task.Description,
		Due:        dates.DisplayOf(task.DueDate),
		NextAction: task.NextAction,
		Status:     task.Status(),
		Priority:   priority,
		Tags:       defaultTags,
	}
}

// Body is the plain-text message body.
func (m Message) Body() string {
	body := "Due Date: " + m.Due
	if m.NextAction != "" {
		body += "\nNext Action: " + m.NextAction
	}
	return body + "\nStatus: " + m.Status
}

// Deliverer hands a message to a push service.
type Deliverer interface {
	Deliver(ctx context.Context, msg Message) error
}

// Recorder remembers the day a task was last notified.
type Recorder interface {
	SetLastNotification(ctx context.Context, id int64, on dates.Date) error
}

// Notifier sends at most one reminder per task per day.
type Notifier struct {
	deliverer Deliverer
	recorder  Recorder
	log       *slog.Logger
}

func New(d Deliverer, rec Recorder, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Notifier{deliverer: d, recorder: rec, log: log}
}

func (n *Notifier) Send(ctx context.Context, task *models.Task, today dates.Date) Outcome {
	if task.NotifiedOn(today) {
		return Outcome{Status: StatusAlreadySent, Reason: "notification already sent"}
	}

	if err := n.deliverer.Deliver(ctx, Compose(task, today)); err != nil {
		n.log.Warn("notification failed", "task_id", task.ID, "error", err)
		return Outcome{Status: StatusFailed, Reason: err.Error()}
	}

	if err := n.recorder.SetLastNotification(ctx, task.ID, today); err != nil {
		// the push went out; only the bookkeeping is lost
		n.log.Error("failed to record notification", "task_id", task.ID, "error", err)
	} else {
		task.LastNotification = &today
	}
	n.log.Info("notification sent", "task_id", task.ID)
	return Outcome{Status: StatusSent}
}

// Nop is the sender used when notifications are turned off.
type Nop struct{}

func (Nop) Send(context.Context, *models.Task, dates.Date) Outcome {
	return Outcome{Status: StatusFailed, Reason: "notifications are disabled"}
}
