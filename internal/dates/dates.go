package dates

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// StorageLayout is the canonical ISO form used for persistence and bucket keys.
	StorageLayout = "2006-01-02"
	// DisplayLayout is the short day-first form shown to users.
	DisplayLayout = "02/01/2006"
	shortLayout   = "02/01"

	// InvalidMarker replaces dates that cannot be parsed or are absent.
	InvalidMarker = "Invalid Date"
)

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day without time-of-day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New normalises out-of-range values the same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

// Parse reads the storage form. Timestamps with a leading ISO date are
// accepted and truncated to the day.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(StorageLayout) && (s[len(StorageLayout)] == 'T' || s[len(StorageLayout)] == ' ') {
		s = s[:len(StorageLayout)]
	}
	t, err := time.Parse(StorageLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// ParseDisplay reads the display form produced by Display.
func ParseDisplay(s string) (Date, error) {
	t, err := time.Parse(DisplayLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// FormatDisplay converts a stored value to the display form, or InvalidMarker.
func FormatDisplay(raw string) string {
	d, err := Parse(raw)
	if err != nil {
		return InvalidMarker
	}
	return d.Display()
}

// DisplayOf is Display for optional dates.
func DisplayOf(d *Date) string {
	if d == nil || d.IsZero() {
		return InvalidMarker
	}
	return d.Display()
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.Time(time.UTC).AddDate(0, 0, n))
}

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time(time.UTC).Sub(d.Time(time.UTC)).Hours() / 24)
}

func (d Date) Before(other Date) bool {
	return d.compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.compare(other) > 0
}

func (d Date) Equal(other Date) bool {
	return d == other
}

func (d Date) compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return d.Year - other.Year
	case d.Month != other.Month:
		return int(d.Month) - int(other.Month)
	default:
		return d.Day - other.Day
	}
}

func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

func (d Date) String() string {
	return d.Time(time.UTC).Format(StorageLayout)
}

func (d Date) Display() string {
	return d.Time(time.UTC).Format(DisplayLayout)
}

func (d Date) Short() string {
	return d.Time(time.UTC).Format(shortLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan accepts the representations the pgx and sqlite drivers hand back for
// DATE and TEXT columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidDate)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, src)
	}
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (Date) GormDataType() string {
	return "date"
}
