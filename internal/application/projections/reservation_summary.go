package projections

import (
	"context"
	"time"

	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/domain/window"
)

// ReservationSummaryQuery carries query parameters.
type ReservationSummaryQuery struct {
	Window window.Name
	Today  time.Time
}

// ReservationSummaryResult carries the dashboard aggregates for one window.
type ReservationSummaryResult struct {
	Window            window.Name
	Range             window.Range
	SpanDays          int // calendar days in Range
	Days              []reservation.DaySummary
	Distribution      []reservation.StatusPax
	TotalReservations int
	TotalPax          int
	Empty             bool // no reservation falls in the window
}

// ReservationSummaryDeps holds dependencies for QueryReservationSummary.
type ReservationSummaryDeps struct {
	Store ReservationLister
}

// QueryReservationSummary aggregates the reservations inside a dashboard window.
// PRE: query.Window is one of window.DashboardOptions
// POST: Days ascending by date; Distribution covers every status label
// INVARIANT: rows without a parseable date never count
func QueryReservationSummary(ctx context.Context, query ReservationSummaryQuery, deps ReservationSummaryDeps) (ReservationSummaryResult, error) {
	rng, err := window.Resolve(query.Window, query.Today, time.Time{})
	if err != nil {
		return ReservationSummaryResult{}, err
	}
	records, err := deps.Store.List(ctx)
	if err != nil {
		return ReservationSummaryResult{}, err
	}

	inRange := reservation.FilterByRange(records, rng)
	res := ReservationSummaryResult{
		Window:       query.Window,
		Range:        rng,
		SpanDays:     rng.Days(),
		Days:         reservation.Summarize(inRange),
		Distribution: reservation.StatusDistribution(inRange, query.Today),
		Empty:        len(inRange) == 0,
	}
	for _, d := range res.Days {
		res.TotalReservations += d.TotalReservations
		res.TotalPax += d.TotalPax
	}
	return res, nil
}
