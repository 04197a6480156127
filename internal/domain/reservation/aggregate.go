package reservation

import (
	"math"
	"sort"
	"time"

	"venuedesk/internal/domain/window"
)

// DaySummary aggregates the reservations of one calendar day.
type DaySummary struct {
	Date              time.Time
	TotalReservations int
	TotalPax          int
	Slots             map[string]int // every label in TimeSlots is present
	Statuses          map[string]int // every label in Statuses is present
}

// StatusPax is one slice of the PAX-by-status distribution.
type StatusPax struct {
	Status string
	Pax    int
}

// FilterByRange keeps records whose parsed date lies within r.
// Records without a parseable date are dropped.
func FilterByRange(records []Record, r window.Range) []Record {
	var out []Record
	for _, rec := range records {
		if rec.HasDate && r.Contains(rec.Day) {
			out = append(out, rec)
		}
	}
	return out
}

// Summarize groups records by date and counts reservations, PAX, slots and statuses.
// PRE: records carry coerced PaxValue and Day
// POST: One DaySummary per distinct date, ascending; input is not mutated
func Summarize(records []Record) []DaySummary {
	byDay := make(map[time.Time]*DaySummary)
	paxByDay := make(map[time.Time]float64)

	for _, rec := range records {
		if !rec.HasDate {
			continue
		}
		day := window.Day(rec.Day)
		s, ok := byDay[day]
		if !ok {
			s = &DaySummary{
				Date:     day,
				Slots:    zeroCounts(TimeSlots),
				Statuses: zeroCounts(Statuses),
			}
			byDay[day] = s
		}
		s.TotalReservations++
		paxByDay[day] += rec.PaxValue
		if _, known := s.Slots[rec.TimeSlot]; known {
			s.Slots[rec.TimeSlot]++
		}
		if _, known := s.Statuses[rec.Status]; known {
			s.Statuses[rec.Status]++
		}
	}

	out := make([]DaySummary, 0, len(byDay))
	for day, s := range byDay {
		s.TotalPax = int(math.Floor(paxByDay[day]))
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// EffectiveStatus is the display-only status used for the distribution:
// a Confirmed reservation dated strictly before today counts as Completed.
// INVARIANT: the stored status is never changed
func EffectiveStatus(rec Record, today time.Time) string {
	if rec.Status == StatusConfirmed && rec.HasDate && window.Day(rec.Day).Before(window.Day(today)) {
		return StatusCompleted
	}
	return rec.Status
}

// StatusDistribution sums PAX per effective status over the fixed label set.
// POST: One entry per label in Statuses, in that order; missing labels are 0
func StatusDistribution(records []Record, today time.Time) []StatusPax {
	sums := make(map[string]float64, len(Statuses))
	for _, rec := range records {
		sums[EffectiveStatus(rec, today)] += rec.PaxValue
	}
	out := make([]StatusPax, 0, len(Statuses))
	for _, s := range Statuses {
		out = append(out, StatusPax{Status: s, Pax: int(math.Floor(sums[s]))})
	}
	return out
}

func zeroCounts(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for _, l := range labels {
		m[l] = 0
	}
	return m
}
