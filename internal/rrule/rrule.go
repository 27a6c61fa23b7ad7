// Package rrule wraps RFC 5545 recurrence rules for habits.
// Habits recur on calendar days, so every rule is anchored at midnight UTC.
package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/hray3182/melgar/internal/dates"
)

// Parse parses an RRULE string (with or without the "RRULE:" prefix) starting on start.
func Parse(ruleStr string, start dates.Date) (*rrule.RRule, error) {
	ruleStr = strings.TrimPrefix(strings.TrimSpace(ruleStr), "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = start.Time(time.UTC)
	return rrule.NewRRule(*opt)
}

// Validate reports whether ruleStr is a usable recurring rule.
func Validate(ruleStr string) error {
	if !IsRecurring(ruleStr) {
		return fmt.Errorf("rule %q has no FREQ", ruleStr)
	}
	_, err := Parse(ruleStr, dates.New(2000, time.January, 1))
	return err
}

// NextOnOrAfter returns the first occurrence on or after day.
// Returns nil if the rule has no more occurrences.
func NextOnOrAfter(ruleStr string, start, day dates.Date) (*dates.Date, error) {
	rule, err := Parse(ruleStr, start)
	if err != nil {
		return nil, err
	}

	next := rule.After(day.Time(time.UTC), true)
	if next.IsZero() {
		return nil, nil
	}
	d := dates.FromTime(next.UTC())
	return &d, nil
}

// NextOccurrences returns up to count occurrences on or after day.
func NextOccurrences(ruleStr string, start, day dates.Date, count int) ([]dates.Date, error) {
	rule, err := Parse(ruleStr, start)
	if err != nil {
		return nil, err
	}

	from := day.Time(time.UTC)
	next := rule.Iterator()
	var results []dates.Date
	for len(results) < count {
		t, ok := next()
		if !ok {
			break
		}
		if !t.Before(from) {
			results = append(results, dates.FromTime(t.UTC()))
		}
	}
	return results, nil
}

// Builder assembles an RRULE from the CLI flags.
type Builder struct {
	Freq       rrule.Frequency
	Interval   int
	ByWeekday  []rrule.Weekday
	ByMonthDay []int
	Count      int
}

const (
	FreqDaily   = rrule.DAILY
	FreqWeekly  = rrule.WEEKLY
	FreqMonthly = rrule.MONTHLY
	FreqYearly  = rrule.YEARLY
)

var weekdayCodes = map[string]rrule.Weekday{
	"MO": rrule.MO, "TU": rrule.TU, "WE": rrule.WE, "TH": rrule.TH,
	"FR": rrule.FR, "SA": rrule.SA, "SU": rrule.SU,
}

var freqNames = map[rrule.Frequency]string{
	rrule.DAILY:   "DAILY",
	rrule.WEEKLY:  "WEEKLY",
	rrule.MONTHLY: "MONTHLY",
	rrule.YEARLY:  "YEARLY",
}

// ParseFreq accepts daily, weekly, monthly or yearly in any case.
func ParseFreq(s string) (rrule.Frequency, error) {
	for f, name := range freqNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown frequency %q", s)
}

// ParseWeekdays parses a comma-separated list of two-letter day codes.
func ParseWeekdays(s string) ([]rrule.Weekday, error) {
	var days []rrule.Weekday
	for _, code := range strings.Split(s, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		d, ok := weekdayCodes[code]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", code)
		}
		days = append(days, d)
	}
	return days, nil
}

func (b *Builder) String() string {
	parts := []string{"FREQ=" + freqNames[b.Freq]}

	if b.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", b.Interval))
	}
	if len(b.ByWeekday) > 0 {
		days := make([]string, len(b.ByWeekday))
		for i, d := range b.ByWeekday {
			days[i] = d.String()
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	if len(b.ByMonthDay) > 0 {
		days := make([]string, len(b.ByMonthDay))
		for i, d := range b.ByMonthDay {
			days[i] = strconv.Itoa(d)
		}
		parts = append(parts, "BYMONTHDAY="+strings.Join(days, ","))
	}
	if b.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", b.Count))
	}
	return strings.Join(parts, ";")
}

var dayNames = map[string]string{
	"MO": "Mon", "TU": "Tue", "WE": "Wed", "TH": "Thu",
	"FR": "Fri", "SA": "Sat", "SU": "Sun",
}

var unitNames = map[string]string{
	"DAILY": "day", "WEEKLY": "week", "MONTHLY": "month", "YEARLY": "year",
}

// HumanReadable renders the common parts of a rule, e.g. "every 2 weeks on Mon, Thu".
func HumanReadable(ruleStr string) string {
	ruleStr = strings.TrimPrefix(strings.TrimSpace(ruleStr), "RRULE:")

	info := make(map[string]string)
	for _, p := range strings.Split(ruleStr, ";") {
		if k, v, ok := strings.Cut(p, "="); ok {
			info[strings.ToUpper(k)] = v
		}
	}

	unit, ok := unitNames[strings.ToUpper(info["FREQ"])]
	if !ok {
		return ruleStr
	}

	var result strings.Builder
	if n, err := strconv.Atoi(info["INTERVAL"]); err == nil && n > 1 {
		fmt.Fprintf(&result, "every %d %ss", n, unit)
	} else {
		result.WriteString("every " + unit)
	}

	if byDay := info["BYDAY"]; byDay != "" {
		var names []string
		for _, d := range strings.Split(byDay, ",") {
			if name, ok := dayNames[strings.ToUpper(d)]; ok {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			result.WriteString(" on " + strings.Join(names, ", "))
		}
	}
	if byMonthDay := info["BYMONTHDAY"]; byMonthDay != "" {
		result.WriteString(" on day " + byMonthDay)
	}
	if count := info["COUNT"]; count != "" {
		result.WriteString(", " + count + " times")
	}
	if until := info["UNTIL"]; until != "" {
		if t, err := time.Parse("20060102T150405Z", until); err == nil {
			result.WriteString(", until " + dates.FromTime(t).Display())
		} else if t, err := time.Parse("20060102", until); err == nil {
			result.WriteString(", until " + dates.FromTime(t).Display())
		}
	}
	return result.String()
}

// IsRecurring checks if the RRULE string carries a frequency.
func IsRecurring(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}
