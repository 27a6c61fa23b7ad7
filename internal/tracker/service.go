// Package tracker holds the task, goal, note and habit operations behind every command.
package tracker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hray3182/melgar/internal/activity"
	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/duedate"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/store"
)

const DefaultGoalTargetDays = 30

type Service struct {
	store          store.Store
	engine         *duedate.Engine
	activity       *activity.Aggregator
	loc            *time.Location
	now            func() time.Time
	goalTargetDays int
	window         int
	log            *slog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithGoalTargetDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.goalTargetDays = days
		}
	}
}

func WithActivityWindow(days int) Option {
	return func(s *Service) { s.window = days }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(st store.Store, engine *duedate.Engine, opts ...Option) *Service {
	s := &Service{
		store:          st,
		engine:         engine,
		loc:            time.Local,
		now:            time.Now,
		goalTargetDays: DefaultGoalTargetDays,
		window:         activity.DefaultWindow,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.activity = activity.NewAggregator(st,
		activity.WithClock(s.now),
		activity.WithLocation(s.loc),
		activity.WithWindow(s.window),
	)
	return s
}

// Today is the current calendar day in the configured timezone.
func (s *Service) Today() dates.Date {
	return dates.Today(s.now(), s.loc)
}

func (s *Service) SnoozeOffsets() []int {
	return s.engine.Offsets()
}

func required(v string) (string, bool) {
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Activity returns the heatmap window of n days ending today. n <= 0 uses
// the configured window.
func (s *Service) Activity(ctx context.Context, n int) ([]models.DaySummary, error) {
	return s.activity.Window(ctx, n)
}
