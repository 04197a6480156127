package window

import (
	"errors"
	"time"
)

// Name identifies a today-anchored reporting window.
type Name string

const (
	Today       Name = "Today"
	CurrentWeek Name = "Current Week"
	NextWeek    Name = "Next Week"
	ThisMonth   Name = "This Month"
	NextMonth   Name = "Next Month"
	SelectDate  Name = "Select Date"
)

// DashboardOptions are the windows offered on the dashboard, in display order.
var DashboardOptions = []Name{Today, CurrentWeek, NextWeek, ThisMonth, NextMonth}

// ManageOptions are the windows offered when picking a reservation to edit.
var ManageOptions = []Name{Today, CurrentWeek, NextWeek, ThisMonth, NextMonth, SelectDate}

// Domain errors
var (
	ErrUnknownWindow   = errors.New("unknown date window")
	ErrMissingSelected = errors.New("a date must be chosen for Select Date")
)

// Range is an inclusive span of calendar days.
// Start and End are always midnight UTC so comparisons are day-granular.
type Range struct {
	Start time.Time
	End   time.Time
}

// Day strips the time-of-day from t, keeping its calendar date.
// The result is midnight UTC; day arithmetic on it never crosses DST.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains returns true if the calendar date of d lies within the range.
// INVARIANT: Range fields are not mutated
func (r Range) Contains(d time.Time) bool {
	day := Day(d)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days returns the number of calendar days covered.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// ForDay is the single-day window [d, d].
func ForDay(d time.Time) Range {
	day := Day(d)
	return Range{Start: day, End: day}
}

// ForCurrentWeek is Monday..Sunday of the week containing today.
func ForCurrentWeek(today time.Time) Range {
	day := Day(today)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0
	start := day.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// ForNextWeek is the current week shifted by seven days.
func ForNextWeek(today time.Time) Range {
	cur := ForCurrentWeek(today)
	start := cur.Start.AddDate(0, 0, 7)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// ForThisMonth is the first through last day of today's month.
func ForThisMonth(today time.Time) Range {
	day := Day(today)
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

// ForNextMonth is the first through last day of the month after today's.
// December rolls over into January of the following year.
func ForNextMonth(today time.Time) Range {
	day := Day(today)
	start := time.Date(day.Year(), day.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

// Resolve computes the range for a named window.
// PRE: selected is non-zero when name is SelectDate
// POST: Returns an inclusive day range anchored to today
func Resolve(name Name, today, selected time.Time) (Range, error) {
	switch name {
	case Today:
		return ForDay(today), nil
	case CurrentWeek:
		return ForCurrentWeek(today), nil
	case NextWeek:
		return ForNextWeek(today), nil
	case ThisMonth:
		return ForThisMonth(today), nil
	case NextMonth:
		return ForNextMonth(today), nil
	case SelectDate:
		if selected.IsZero() {
			return Range{}, ErrMissingSelected
		}
		return ForDay(selected), nil
	}
	return Range{}, ErrUnknownWindow
}

// Parse maps a query-string value onto a window name, falling back to Today.
func Parse(s string, allowed []Name) Name {
	for _, n := range allowed {
		if string(n) == s {
			return n
		}
	}
	return Today
}
