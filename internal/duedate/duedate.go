package duedate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hray3182/melgar/internal/dates"
)

var (
	ErrInvalidSnooze   = errors.New("invalid snooze duration")
	ErrTaskCompleted   = errors.New("task is completed")
	ErrResetNotAllowed = errors.New("due date reset not allowed")
)

// DefaultOffsets are the snooze durations offered when none are configured.
var DefaultOffsets = []int{1, 3, 7, 30}

// ResetPolicy decides which tasks may have their due date reset to today.
type ResetPolicy string

const (
	ResetAny          ResetPolicy = "any"
	ResetOverdueOnly  ResetPolicy = "overdue-only"
	ResetUpcomingOnly ResetPolicy = "upcoming-only"
)

func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch p := ResetPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ResetAny, ResetOverdueOnly, ResetUpcomingOnly:
		return p, nil
	case "":
		return ResetAny, nil
	default:
		return "", fmt.Errorf("unknown reset policy %q", s)
	}
}

type Policy struct {
	Offsets []int
	Reset   ResetPolicy
	// AllowCompleted permits snoozing and resetting completed tasks.
	AllowCompleted bool
}

type Engine struct {
	offsets        []int
	reset          ResetPolicy
	allowCompleted bool
}

func New(p Policy) (*Engine, error) {
	offsets := p.Offsets
	if len(offsets) == 0 {
		offsets = DefaultOffsets
	}
	for _, o := range offsets {
		if o <= 0 {
			return nil, fmt.Errorf("snooze offset must be positive, got %d", o)
		}
	}
	offsets = slices.Clone(offsets)
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)

	reset := p.Reset
	if reset == "" {
		reset = ResetAny
	}
	if _, err := ParseResetPolicy(string(reset)); err != nil {
		return nil, err
	}

	return &Engine{offsets: offsets, reset: reset, allowCompleted: p.AllowCompleted}, nil
}

// IsOverdue reports whether an incomplete task's due day is strictly before today.
// Tasks without a due date are never overdue.
func IsOverdue(due *dates.Date, completed bool, today dates.Date) bool {
	if completed || due == nil {
		return false
	}
	return due.Before(today)
}

func (e *Engine) Offsets() []int {
	return slices.Clone(e.offsets)
}

func (e *Engine) Allowed(offset int) bool {
	return slices.Contains(e.offsets, offset)
}

// Snooze pushes the due date forward by offset days, counting from today when
// the task has no due date.
func (e *Engine) Snooze(due *dates.Date, completed bool, offset int, today dates.Date) (dates.Date, error) {
	if !e.Allowed(offset) {
		return dates.Date{}, fmt.Errorf("%w: %d (allowed: %s)", ErrInvalidSnooze, offset, joinInts(e.offsets))
	}
	if completed && !e.allowCompleted {
		return dates.Date{}, ErrTaskCompleted
	}

	base := today
	if due != nil && !due.IsZero() {
		base = *due
	}
	return base.AddDays(offset), nil
}

func (e *Engine) ResetToToday(due *dates.Date, completed bool, today dates.Date) (dates.Date, error) {
	if completed && !e.allowCompleted {
		return dates.Date{}, ErrTaskCompleted
	}

	overdue := IsOverdue(due, completed, today)
	switch e.reset {
	case ResetOverdueOnly:
		if !overdue {
			return dates.Date{}, fmt.Errorf("%w: task is not overdue", ErrResetNotAllowed)
		}
	case ResetUpcomingOnly:
		if overdue {
			return dates.Date{}, fmt.Errorf("%w: task is already overdue", ErrResetNotAllowed)
		}
	}
	return today, nil
}

// Describe renders an offset the way confirmations show it, e.g. "7 days (1 week)".
func Describe(offset int) string {
	unit := "days"
	if offset == 1 {
		unit = "day"
	}
	s := fmt.Sprintf("%d %s", offset, unit)
	switch offset {
	case 7:
		s += " (1 week)"
	case 30:
		s += " (1 month)"
	}
	return s
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
