package models

import "github.com/hray3182/melgar/internal/dates"

// DateCount is one row of a count-grouped-by-day query.
type DateCount struct {
	Date  dates.Date
	Count int
}

// DaySummary is one cell of the activity heatmap.
type DaySummary struct {
	Date        dates.Date `json:"date"`
	Actions     int        `json:"actions"`
	Completions int        `json:"completions"`
	IsToday     bool       `json:"is_today"`
}

func (d DaySummary) Total() int {
	return d.Actions + d.Completions
}

func (d DaySummary) Short() string {
	return d.Date.Short()
}

func (d DaySummary) WeekdayInitial() string {
	return d.Date.Weekday().String()[:1]
}
