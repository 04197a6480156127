package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"venuedesk/internal/application/listutil"
	domainMember "venuedesk/internal/domain/member"
	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/domain/window"
)

// Monday 4 March 2024.
var today = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

type mockReservationLister struct {
	records []reservation.Record
	err     error
}

// List returns the seeded records.
// PRE: none
// POST: Returns records or the configured error
func (m *mockReservationLister) List(_ context.Context) ([]reservation.Record, error) {
	return m.records, m.err
}

type mockMemberLister struct {
	members []domainMember.Member
}

// List returns the seeded members.
// PRE: none
// POST: Returns members in seeded order
func (m *mockMemberLister) List(_ context.Context) ([]domainMember.Member, error) {
	return m.members, nil
}

var rowSeq int

func rec(date, name, contact string, pax float64, status string) reservation.Record {
	rowSeq++
	r := reservation.Record{
		Reservation: reservation.Reservation{
			Name: name, ContactNumber: contact, Date: date,
			TimeSlot: reservation.SlotMorning, Status: status,
		},
		Row:      rowSeq + 1,
		PaxValue: pax,
	}
	r.Day, r.HasDate = reservation.ParseDateOrNull(date)
	return r
}

func seeded() *mockReservationLister {
	rowSeq = 0
	return &mockReservationLister{records: []reservation.Record{
		rec("2024-03-04", "Ada", "021 111", 2, reservation.StatusConfirmed),
		rec("2024-03-04", "Grace", "022 222", 3.7, reservation.StatusInProgress),
		rec("2024-03-06", "Alan", "021 333", 5, reservation.StatusConfirmed),
		rec("2024-03-01", "Past", "023 444", 4, reservation.StatusConfirmed),
		rec("2024-03-12", "NextWeek", "021 555", 6, reservation.StatusLost),
		rec("not a date", "Broken", "021 666", 9, reservation.StatusConfirmed),
	}}
}

// --- QueryReservationSummary tests ---

// TestQueryReservationSummary_Today tests a single-day window.
func TestQueryReservationSummary_Today(t *testing.T) {
	res, err := QueryReservationSummary(context.Background(), ReservationSummaryQuery{Window: window.Today, Today: today},
		ReservationSummaryDeps{Store: seeded()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Empty {
		t.Fatal("expected reservations today")
	}
	if len(res.Days) != 1 || res.TotalReservations != 2 || res.TotalPax != 5 {
		t.Errorf("got days=%d total=%d pax=%d", len(res.Days), res.TotalReservations, res.TotalPax)
	}
	if res.SpanDays != 1 {
		t.Errorf("expected a one-day span, got %d", res.SpanDays)
	}
	if len(res.Distribution) != len(reservation.Statuses) {
		t.Errorf("expected every status label, got %d", len(res.Distribution))
	}
}

// TestQueryReservationSummary_ThisMonth tests that past confirmed rows count as completed.
func TestQueryReservationSummary_ThisMonth(t *testing.T) {
	res, err := QueryReservationSummary(context.Background(), ReservationSummaryQuery{Window: window.ThisMonth, Today: today},
		ReservationSummaryDeps{Store: seeded()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalReservations != 5 {
		t.Errorf("expected 5 dated reservations, got %d", res.TotalReservations)
	}
	if res.SpanDays != 31 {
		t.Errorf("expected March to span 31 days, got %d", res.SpanDays)
	}
	byStatus := map[string]int{}
	for _, sp := range res.Distribution {
		byStatus[sp.Status] = sp.Pax
	}
	if byStatus[reservation.StatusCompleted] != 4 {
		t.Errorf("expected the 1 March row as Completed (4 pax), got %d", byStatus[reservation.StatusCompleted])
	}
	if byStatus[reservation.StatusConfirmed] != 7 {
		t.Errorf("expected 7 confirmed pax, got %d", byStatus[reservation.StatusConfirmed])
	}
}

// TestQueryReservationSummary_Empty tests the empty flag.
func TestQueryReservationSummary_Empty(t *testing.T) {
	res, err := QueryReservationSummary(context.Background(), ReservationSummaryQuery{Window: window.NextMonth, Today: today},
		ReservationSummaryDeps{Store: seeded()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Empty || len(res.Days) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

// TestQueryReservationSummary_Errors tests window and store failures.
func TestQueryReservationSummary_Errors(t *testing.T) {
	storeErr := errors.New("sheet unavailable")
	if _, err := QueryReservationSummary(context.Background(), ReservationSummaryQuery{Window: "Fortnight", Today: today},
		ReservationSummaryDeps{Store: seeded()}); !errors.Is(err, window.ErrUnknownWindow) {
		t.Errorf("expected ErrUnknownWindow, got %v", err)
	}
	if _, err := QueryReservationSummary(context.Background(), ReservationSummaryQuery{Window: window.Today, Today: today},
		ReservationSummaryDeps{Store: &mockReservationLister{err: storeErr}}); !errors.Is(err, storeErr) {
		t.Errorf("expected store error, got %v", err)
	}
}

// --- QueryEditCandidates tests ---

func editQuery(w window.Name, list listutil.ListParams) EditCandidatesQuery {
	return EditCandidatesQuery{Window: w, Today: today, List: list}
}

// TestQueryEditCandidates_Filters tests window, search and status filtering.
func TestQueryEditCandidates_Filters(t *testing.T) {
	tests := []struct {
		name   string
		query  EditCandidatesQuery
		want   []string
		wantEr error
	}{
		{"current week", editQuery(window.CurrentWeek, listutil.ListParams{}), []string{"Ada", "Grace", "Alan"}, nil},
		{"contact search", editQuery(window.CurrentWeek, listutil.ListParams{FilterParams: listutil.FilterParams{Search: "021"}}), []string{"Ada", "Alan"}, nil},
		{"status filter", editQuery(window.ThisMonth, listutil.ListParams{FilterParams: listutil.FilterParams{Filters: map[string]string{"status": reservation.StatusLost}}}), []string{"NextWeek"}, nil},
		{"select date", EditCandidatesQuery{Window: window.SelectDate, Today: today, Selected: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)}, []string{"Alan"}, nil},
		{"select date missing", EditCandidatesQuery{Window: window.SelectDate, Today: today}, nil, window.ErrMissingSelected},
		{"sort pax desc", editQuery(window.CurrentWeek, listutil.ListParams{SortParams: listutil.SortParams{Sort: "pax", Dir: "desc"}}), []string{"Alan", "Grace", "Ada"}, nil},
		{"sort name", editQuery(window.CurrentWeek, listutil.ListParams{SortParams: listutil.SortParams{Sort: "name", Dir: "asc"}}), []string{"Ada", "Alan", "Grace"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryEditCandidates(context.Background(), tt.query, EditCandidatesDeps{Store: seeded()})
			if !errors.Is(err, tt.wantEr) {
				t.Fatalf("expected error %v, got %v", tt.wantEr, err)
			}
			if err != nil {
				return
			}
			var got []string
			for _, r := range res.Items {
				got = append(got, r.Name)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

// TestQueryEditCandidates_Paging tests that only one page is returned.
func TestQueryEditCandidates_Paging(t *testing.T) {
	res, err := QueryEditCandidates(context.Background(), editQuery(window.ThisMonth, listutil.ListParams{
		PageParams: listutil.PageParams{Page: 2, PerPage: 2},
	}), EditCandidatesDeps{Store: seeded()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page.Total != 5 || res.Page.TotalPages != 3 {
		t.Errorf("unexpected page info %+v", res.Page)
	}
	if len(res.Items) != 2 || res.Items[0].Name != "Grace" {
		t.Errorf("unexpected page 2 items %+v", res.Items)
	}
}

// TestQueryEditCandidates_Empty tests the empty flag.
func TestQueryEditCandidates_Empty(t *testing.T) {
	res, err := QueryEditCandidates(context.Background(), editQuery(window.NextMonth, listutil.ListParams{}), EditCandidatesDeps{Store: seeded()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Empty || len(res.Items) != 0 {
		t.Errorf("expected empty, got %+v", res)
	}
}

// --- QueryMemberList tests ---

// TestQueryMemberList tests search and role filtering.
func TestQueryMemberList(t *testing.T) {
	store := &mockMemberLister{members: []domainMember.Member{
		{Name: "Ada", Role: domainMember.RoleAdmin, Contact: "ada@example.org"},
		{Name: "Grace", Role: domainMember.RoleMember, Contact: "021 222"},
		{Name: "Alan", Role: domainMember.RoleGuest},
	}}
	tests := []struct {
		name   string
		filter listutil.FilterParams
		want   int
	}{
		{"all", listutil.FilterParams{}, 3},
		{"search contact", listutil.FilterParams{Search: "example"}, 1},
		{"search name", listutil.FilterParams{Search: "a"}, 3},
		{"role", listutil.FilterParams{Filters: map[string]string{"role": domainMember.RoleGuest}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryMemberList(context.Background(), MemberListQuery{Filter: tt.filter}, MemberListDeps{Store: store})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Members) != tt.want {
				t.Errorf("expected %d members, got %d", tt.want, len(res.Members))
			}
		})
	}
}
