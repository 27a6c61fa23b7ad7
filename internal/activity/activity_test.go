package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hray3182/melgar/internal/dates"
	"github.com/hray3182/melgar/internal/models"
	"github.com/hray3182/melgar/internal/sqlitestore"
)

type fakeSource struct {
	actions, notes, tasks, goals []models.DateCount
	err                          error
	since                        []dates.Date
}

func (f *fakeSource) ActionCountsSince(_ context.Context, since dates.Date) ([]models.DateCount, error) {
	f.since = append(f.since, since)
	return f.actions, f.err
}

func (f *fakeSource) NoteCountsSince(_ context.Context, since dates.Date) ([]models.DateCount, error) {
	f.since = append(f.since, since)
	return f.notes, nil
}

func (f *fakeSource) TaskCompletionCountsSince(_ context.Context, since dates.Date) ([]models.DateCount, error) {
	f.since = append(f.since, since)
	return f.tasks, nil
}

func (f *fakeSource) GoalCompletionCountsSince(_ context.Context, since dates.Date) ([]models.DateCount, error) {
	f.since = append(f.since, since)
	return f.goals, nil
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
}

func TestWindowRejectsOversizedRequest(t *testing.T) {
	src := &fakeSource{}
	agg := NewAggregator(src, WithClock(fixedClock(2024, time.March, 10)), WithLocation(time.UTC))

	for _, n := range []int{MaxWindow + 1, 1 << 40} {
		if _, err := agg.Window(context.Background(), n); !errors.Is(err, models.ErrInvalidArgs) {
			t.Fatalf("Window(%d): got %v, want ErrInvalidArgs", n, err)
		}
	}
	if len(src.since) != 0 {
		t.Fatalf("oversized window reached the source: %v", src.since)
	}

	days, err := agg.Window(context.Background(), MaxWindow)
	if err != nil {
		t.Fatalf("Window(MaxWindow): %v", err)
	}
	if len(days) != MaxWindow {
		t.Fatalf("got %d days, want %d", len(days), MaxWindow)
	}
}

func TestWindowIsDenseAndOrdered(t *testing.T) {
	today := dates.New(2024, time.March, 10)
	src := &fakeSource{
		actions: []models.DateCount{{Date: today.AddDays(-5), Count: 1}},
		notes:   []models.DateCount{{Date: today.AddDays(-5), Count: 2}},
		tasks:   []models.DateCount{{Date: today, Count: 1}},
		goals:   []models.DateCount{{Date: today, Count: 1}},
	}
	agg := NewAggregator(src, WithClock(fixedClock(2024, time.March, 10)), WithLocation(time.UTC))

	days, err := agg.Window(context.Background(), 21)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(days) != 21 {
		t.Fatalf("got %d days, want 21", len(days))
	}
	if !days[0].Date.Equal(today.AddDays(-20)) {
		t.Fatalf("first day = %v", days[0].Date)
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Date.Equal(days[i-1].Date.AddDays(1)) {
			t.Fatalf("gap between %v and %v", days[i-1].Date, days[i].Date)
		}
	}

	for _, s := range src.since {
		if !s.Equal(today.AddDays(-20)) {
			t.Fatalf("queried since %v, want %v", s, today.AddDays(-20))
		}
	}

	for i, day := range days {
		switch {
		case i == 15:
			if day.Actions != 3 || day.Completions != 0 {
				t.Fatalf("day -5 = %+v", day)
			}
		case i == 20:
			if day.Actions != 0 || day.Completions != 2 || !day.IsToday {
				t.Fatalf("today = %+v", day)
			}
		default:
			if day.Total() != 0 || day.IsToday {
				t.Fatalf("day %d = %+v, want empty", i, day)
			}
		}
	}
}

func TestWindowDefaults(t *testing.T) {
	agg := NewAggregator(&fakeSource{}, WithClock(fixedClock(2024, time.March, 10)), WithLocation(time.UTC), WithWindow(7))

	for _, n := range []int{0, -3} {
		days, err := agg.Window(context.Background(), n)
		if err != nil {
			t.Fatalf("Window(%d): %v", n, err)
		}
		if len(days) != 7 {
			t.Fatalf("Window(%d) returned %d days, want 7", n, len(days))
		}
	}

	days, err := agg.Window(context.Background(), 1)
	if err != nil {
		t.Fatalf("Window(1): %v", err)
	}
	if len(days) != 1 || !days[0].IsToday {
		t.Fatalf("Window(1) = %+v", days)
	}
}

func TestWindowPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	agg := NewAggregator(&fakeSource{err: boom}, WithClock(fixedClock(2024, time.March, 10)))

	if _, err := agg.Window(context.Background(), 5); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}

func TestWindowAgainstStore(t *testing.T) {
	s, err := sqlitestore.Open(sqlitestore.MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	today := dates.New(2024, time.March, 10)

	task := &models.Task{Description: "write report"}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := s.CreateAction(ctx, &models.Action{TaskID: task.ID, Description: "outline", Date: today.AddDays(-5)}); err != nil {
		t.Fatalf("CreateAction: %v", err)
	}
	if err := s.SetCompletion(ctx, task.ID, true, &today); err != nil {
		t.Fatalf("SetCompletion: %v", err)
	}

	agg := NewAggregator(s, WithClock(fixedClock(2024, time.March, 10)), WithLocation(time.UTC))
	days, err := agg.Window(ctx, 21)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}

	var actions, completions int
	for _, day := range days {
		actions += day.Actions
		completions += day.Completions
	}
	if actions != 1 || completions != 1 {
		t.Fatalf("totals = %d actions, %d completions", actions, completions)
	}
	if days[15].Actions != 1 || days[20].Completions != 1 {
		t.Fatalf("counts landed on wrong days: %+v / %+v", days[15], days[20])
	}
}
