// Package activity builds the per-day activity window shown as a heatmap.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
)

const DefaultWindow = 21

// MaxWindow caps a window at about ten years of days.
const MaxWindow = 3660

// Source supplies per-day counts for rows dated on or after since.
type Source interface {
	ActionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
	NoteCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
	TaskCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
	GoalCompletionCountsSince(ctx context.Context, since dates.Date) ([]models.DateCount, error)
}

type Aggregator struct {
	src    Source
	window int
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) { a.loc = loc }
}

// WithWindow sets the number of days used when Window is called with n <= 0.
func WithWindow(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.window = n
		}
	}
}

func NewAggregator(src Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:    src,
		window: DefaultWindow,
		loc:    time.Local,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Window returns one summary per day from today-n+1 through today, oldest first.
// Actions counts task actions and notes; Completions counts tasks and goals.
func (a *Aggregator) Window(ctx context.Context, n int) ([]models.DaySummary, error) {
	if n <= 0 {
		n = a.window
	}
	if n > MaxWindow {
		return nil, fmt.Errorf("activity window of %d days exceeds %d: %w", n, MaxWindow, models.ErrInvalidArgs)
	}
	today := dates.Today(a.now(), a.loc)
	start := today.AddDays(-(n - 1))

	actions := make(map[string]int)
	completions := make(map[string]int)

	queries := []struct {
		name  string
		fetch func(context.Context, dates.Date) ([]models.DateCount, error)
		into  map[string]int
	}{
		{"action counts", a.src.ActionCountsSince, actions},
		{"note counts", a.src.NoteCountsSince, actions},
		{"task completion counts", a.src.TaskCompletionCountsSince, completions},
		{"goal completion counts", a.src.GoalCompletionCountsSince, completions},
	}
	for _, q := range queries {
		counts, err := q.fetch(ctx, start)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.name, err)
		}
		for _, c := range counts {
			q.into[c.Date.String()] += c.Count
		}
	}

	days := make([]models.DaySummary, 0, n)
	for d := start; !d.After(today); d = d.AddDays(1) {
		key := d.String()
		days = append(days, models.DaySummary{
			Date:        d,
			Actions:     actions[key],
			Completions: completions[key],
			IsToday:     d.Equal(today),
		})
	}
	return days, nil
}
