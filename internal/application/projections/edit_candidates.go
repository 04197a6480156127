package projections

import (
	"context"
	"sort"
	"time"

	"venuedesk/internal/application/listutil"
	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/domain/window"
)

// EditCandidateSortColumns are the accepted values of the sort parameter.
var EditCandidateSortColumns = []string{"date", "name", "pax", "status"}

// EditCandidateFilterKeys are the accepted exact-match filters.
var EditCandidateFilterKeys = []string{"status"}

// EditCandidatesQuery carries query parameters.
type EditCandidatesQuery struct {
	Window   window.Name
	Today    time.Time
	Selected time.Time // used when Window is window.SelectDate
	List     listutil.ListParams
}

// EditCandidatesResult carries one page of reservations that can be edited.
type EditCandidatesResult struct {
	Window window.Name
	Range  window.Range
	Items  []reservation.Record
	Page   listutil.PageInfo
	Empty  bool // nothing matched the window and filters
}

// EditCandidatesDeps holds dependencies for QueryEditCandidates.
type EditCandidatesDeps struct {
	Store ReservationLister
}

// QueryEditCandidates lists the reservations in a window for selection.
// The free-text search matches the contact number or the name.
// PRE: query.Window is one of window.ManageOptions
// POST: Items is one page; default order is date then sheet row
func QueryEditCandidates(ctx context.Context, query EditCandidatesQuery, deps EditCandidatesDeps) (EditCandidatesResult, error) {
	rng, err := window.Resolve(query.Window, query.Today, query.Selected)
	if err != nil {
		return EditCandidatesResult{}, err
	}
	records, err := deps.Store.List(ctx)
	if err != nil {
		return EditCandidatesResult{}, err
	}

	f := query.List.FilterParams
	var matched []reservation.Record
	for _, rec := range reservation.FilterByRange(records, rng) {
		if !f.Matches(rec.ContactNumber, rec.Name) {
			continue
		}
		if st := f.Filter("status"); st != "" && rec.Status != st {
			continue
		}
		matched = append(matched, rec)
	}
	sortRecords(matched, query.List.SortParams)

	items, info := listutil.Paginate(matched, query.List.PageParams)
	return EditCandidatesResult{
		Window: query.Window,
		Range:  rng,
		Items:  items,
		Page:   info,
		Empty:  len(matched) == 0,
	}, nil
}

func sortRecords(recs []reservation.Record, s listutil.SortParams) {
	less := func(a, b reservation.Record) int {
		switch s.Sort {
		case "name":
			return compare(a.Name, b.Name)
		case "pax":
			return compare(a.PaxValue, b.PaxValue)
		case "status":
			return compare(a.Status, b.Status)
		}
		return a.Day.Compare(b.Day)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		c := less(recs[i], recs[j])
		if s.Desc() {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return recs[i].Row < recs[j].Row
	})
}

func compare[T int | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
