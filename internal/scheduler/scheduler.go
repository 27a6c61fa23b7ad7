// Package scheduler runs the overdue job: habit tasks, reminders and calendar blocks.
package scheduler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hray3182/melgar/internal/calendar"
	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/notify"
)

// Tasks is the part of the tracker the job drives.
type Tasks interface {
	CreateHabitTasks(ctx context.Context) ([]*models.Task, error)
	OverdueTasks(ctx context.Context) ([]*models.Task, error)
	Today() dates.Date
}

type Config struct {
	// EventHours are fractional wall-clock hours, 13.5 meaning 13:30.
	EventHours    []float64
	CheckInterval time.Duration
	Location      *time.Location
	Now           func() time.Time
}

var DefaultEventHours = []float64{13, 18}

const DefaultCheckInterval = time.Hour

// Report counts what one run did. EventsCreated counts tasks that have an
// event at every configured hour after the run.
type Report struct {
	HabitTasks          int
	Overdue             int
	NotificationsSent   int
	AlreadyNotified     int
	NotificationsFailed int
	EventsCreated       int
	EventFailures       int
}

type Scheduler struct {
	tasks    Tasks
	sender   notify.Sender
	creator  calendar.Creator
	cfg      Config
	log      *slog.Logger
	notifyCh chan struct{}
}

func New(tasks Tasks, sender notify.Sender, creator calendar.Creator, cfg Config, log *slog.Logger) *Scheduler {
	if len(cfg.EventHours) == 0 {
		cfg.EventHours = DefaultEventHours
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		tasks:    tasks,
		sender:   sender,
		creator:  creator,
		cfg:      cfg,
		log:      log,
		notifyCh: make(chan struct{}, 1),
	}
}

// Notify triggers an immediate run. Non-blocking if a run is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start runs the job now and then on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started", "interval", s.cfg.CheckInterval)
	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.notifyCh:
			s.log.Debug("scheduler triggered")
			s.RunOnce(ctx)
		}
	}
}

// RunOnce creates habit tasks, then notifies about every overdue task and
// books calendar time for it. Calendar time goes to priority tasks only,
// unless none of the overdue tasks is a priority. Failures for one task are
// logged and do not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) Report {
	var r Report

	created, err := s.tasks.CreateHabitTasks(ctx)
	if err != nil {
		s.log.Error("failed to create habit tasks", "error", err)
	}
	r.HabitTasks = len(created)

	overdue, err := s.tasks.OverdueTasks(ctx)
	if err != nil {
		s.log.Error("failed to load overdue tasks", "error", err)
		return r
	}
	r.Overdue = len(overdue)

	hasPriority := false
	for _, task := range overdue {
		if task.Priority {
			hasPriority = true
			break
		}
	}

	today := s.tasks.Today()
	now := s.cfg.Now().In(s.cfg.Location)
	starts := make([]time.Time, len(s.cfg.EventHours))
	for i, h := range s.cfg.EventHours {
		starts[i] = calendar.At(now, h)
	}

	for _, task := range overdue {
		switch out := s.sender.Send(ctx, task, today); out.Status {
		case notify.StatusSent:
			r.NotificationsSent++
		case notify.StatusAlreadySent:
			r.AlreadyNotified++
		default:
			r.NotificationsFailed++
			s.log.Warn("notification not sent", "task_id", task.ID, "reason", out.Reason)
		}

		if hasPriority && !task.Priority {
			continue
		}
		ok := true
		for _, start := range starts {
			if err := s.creator.CreateEvent(ctx, task, start); err != nil {
				ok = false
				r.EventFailures++
				s.log.Error("failed to create event", "task_id", task.ID, "start", start.Format(time.RFC3339), "error", err)
			}
		}
		if ok {
			r.EventsCreated++
		}
	}

	s.log.Info("overdue job finished",
		"habit_tasks", r.HabitTasks,
		"overdue", r.Overdue,
		"notifications_sent", r.NotificationsSent,
		"events_created", r.EventsCreated,
	)
	return r
}
