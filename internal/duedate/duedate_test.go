package duedate

import (
	"errors"
	"testing"
	"time"

	"github.com/hray3182/melgar/internal/dates"
)

var today = dates.New(2026, time.October, 18)

func ptr(d dates.Date) *dates.Date { return &d }

func mustEngine(t *testing.T, p Policy) *Engine {
	t.Helper()

	e, err := New(p)
	if err != nil {
		t.Fatalf("New(%+v): %v", p, err)
	}
	return e
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name      string
		due       *dates.Date
		completed bool
		want      bool
	}{
		{"yesterday pending", ptr(today.AddDays(-1)), false, true},
		{"today pending", ptr(today), false, false},
		{"tomorrow pending", ptr(today.AddDays(1)), false, false},
		{"yesterday completed", ptr(today.AddDays(-1)), true, false},
		{"long ago completed", ptr(today.AddDays(-400)), true, false},
		{"no due date", nil, false, false},
	}

	for _, tt := range tests {
		if got := IsOverdue(tt.due, tt.completed, today); got != tt.want {
			t.Fatalf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSnooze_FromDueDate(t *testing.T) {
	e := mustEngine(t, Policy{})

	due := dates.New(2026, time.October, 1)
	got, err := e.Snooze(&due, false, 3, today)
	if err != nil {
		t.Fatalf("Snooze returned error: %v", err)
	}
	if want := dates.New(2026, time.October, 4); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSnooze_WithoutDueDateStartsToday(t *testing.T) {
	e := mustEngine(t, Policy{})

	got, err := e.Snooze(nil, false, 7, today)
	if err != nil {
		t.Fatalf("Snooze returned error: %v", err)
	}
	if want := today.AddDays(7); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSnooze_RejectsOffsetsOutsideAllowedSet(t *testing.T) {
	e := mustEngine(t, Policy{Offsets: []int{1, 3, 7}})

	for _, offset := range []int{0, -1, 2, 30, 365} {
		if _, err := e.Snooze(nil, false, offset, today); !errors.Is(err, ErrInvalidSnooze) {
			t.Fatalf("offset %d: expected ErrInvalidSnooze, got %v", offset, err)
		}
	}
	if _, err := e.Snooze(nil, false, 7, today); err != nil {
		t.Fatalf("offset 7 should be allowed: %v", err)
	}
}

func TestSnooze_CompletedTaskPolicy(t *testing.T) {
	strict := mustEngine(t, Policy{})
	if _, err := strict.Snooze(ptr(today), true, 1, today); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("expected ErrTaskCompleted, got %v", err)
	}

	lenient := mustEngine(t, Policy{AllowCompleted: true})
	got, err := lenient.Snooze(ptr(today), true, 1, today)
	if err != nil {
		t.Fatalf("lenient Snooze returned error: %v", err)
	}
	if got != today.AddDays(1) {
		t.Fatalf("expected tomorrow, got %s", got)
	}
}

func TestResetToToday_Policies(t *testing.T) {
	overdue := ptr(today.AddDays(-2))
	upcoming := ptr(today.AddDays(2))

	tests := []struct {
		policy  ResetPolicy
		due     *dates.Date
		wantErr bool
	}{
		{ResetAny, overdue, false},
		{ResetAny, upcoming, false},
		{ResetAny, nil, false},
		{ResetOverdueOnly, overdue, false},
		{ResetOverdueOnly, upcoming, true},
		{ResetUpcomingOnly, overdue, true},
		{ResetUpcomingOnly, upcoming, false},
	}

	for _, tt := range tests {
		e := mustEngine(t, Policy{Reset: tt.policy})
		got, err := e.ResetToToday(tt.due, false, today)
		if tt.wantErr {
			if !errors.Is(err, ErrResetNotAllowed) {
				t.Fatalf("%s: expected ErrResetNotAllowed, got %v", tt.policy, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.policy, err)
		}
		if got != today {
			t.Fatalf("%s: expected today, got %s", tt.policy, got)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Policy{Offsets: []int{1, 0}}); err == nil {
		t.Fatalf("expected error for zero offset")
	}
	if _, err := New(Policy{Reset: "sometimes"}); err == nil {
		t.Fatalf("expected error for unknown reset policy")
	}

	e := mustEngine(t, Policy{Offsets: []int{7, 1, 7, 3}})
	got := e.Offsets()
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 7 {
		t.Fatalf("expected sorted unique offsets, got %v", got)
	}
}

func TestDescribe(t *testing.T) {
	cases := map[int]string{
		1:  "1 day",
		3:  "3 days",
		7:  "7 days (1 week)",
		30: "30 days (1 month)",
	}
	for offset, want := range cases {
		if got := Describe(offset); got != want {
			t.Fatalf("Describe(%d) = %q, want %q", offset, got, want)
		}
	}
}
