package reservation_test

import (
	"reflect"
	"testing"
	"time"

	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/domain/window"
)

func record(date, pax, slot, status string) reservation.Record {
	index, _ := reservation.IndexHeader(reservation.Header)
	r := reservation.Reservation{Date: date, TimeSlot: slot, Status: status}
	row := r.ToRow()
	row[4] = pax
	return reservation.ParseRecord(row, index, 2)
}

// TestSummarize_SingleDay checks counts for a mixed day.
func TestSummarize_SingleDay(t *testing.T) {
	records := []reservation.Record{
		record("2024-03-04", "3", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-04", "2", reservation.SlotEvening, reservation.StatusCancelled),
	}

	got := reservation.Summarize(records)
	if len(got) != 1 {
		t.Fatalf("len(Summarize) = %d, want 1", len(got))
	}
	day := got[0]
	if day.TotalReservations != 2 || day.TotalPax != 5 {
		t.Errorf("totals = %d/%d, want 2/5", day.TotalReservations, day.TotalPax)
	}
	wantSlots := map[string]int{reservation.SlotMorning: 1, reservation.SlotAfternoon: 0, reservation.SlotEvening: 1}
	if !reflect.DeepEqual(day.Slots, wantSlots) {
		t.Errorf("Slots = %v, want %v", day.Slots, wantSlots)
	}
	wantStatuses := map[string]int{
		reservation.StatusInProgress: 0, reservation.StatusConfirmed: 1, reservation.StatusCancelled: 1,
		reservation.StatusCompleted: 0, reservation.StatusLost: 0,
	}
	if !reflect.DeepEqual(day.Statuses, wantStatuses) {
		t.Errorf("Statuses = %v, want %v", day.Statuses, wantStatuses)
	}
}

// TestSummarize_OrderingAndCoercion checks date order and non-numeric pax.
func TestSummarize_OrderingAndCoercion(t *testing.T) {
	records := []reservation.Record{
		record("2024-03-06", "abc", reservation.SlotMorning, reservation.StatusLost),
		record("2024-03-05", "4", reservation.SlotAfternoon, reservation.StatusInProgress),
		record("garbage", "10", reservation.SlotMorning, reservation.StatusLost),
	}

	got := reservation.Summarize(records)
	if len(got) != 2 {
		t.Fatalf("len(Summarize) = %d, want 2 (undated row dropped)", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Errorf("summaries not ascending: %v, %v", got[0].Date, got[1].Date)
	}
	if got[1].TotalReservations != 1 || got[1].TotalPax != 0 {
		t.Errorf("non-numeric pax day = %d/%d, want 1/0", got[1].TotalReservations, got[1].TotalPax)
	}
}

// TestSummarize_Idempotent verifies repeated aggregation gives the same result without mutating input.
func TestSummarize_Idempotent(t *testing.T) {
	records := []reservation.Record{
		record("2024-03-04", "3", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-05", "1", reservation.SlotEvening, reservation.StatusLost),
	}
	before := append([]reservation.Record(nil), records...)

	first := reservation.Summarize(records)
	second := reservation.Summarize(records)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Summarize not idempotent: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(records, before) {
		t.Error("Summarize mutated its input")
	}
}

// TestFilterByRange keeps only dated records inside the window.
func TestFilterByRange(t *testing.T) {
	records := []reservation.Record{
		record("2024-03-03", "1", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-04", "1", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-10", "1", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-11", "1", reservation.SlotMorning, reservation.StatusConfirmed),
		record("", "1", reservation.SlotMorning, reservation.StatusConfirmed),
	}
	week := window.ForCurrentWeek(today)

	got := reservation.FilterByRange(records, week)
	if len(got) != 2 {
		t.Fatalf("len(FilterByRange) = %d, want 2", len(got))
	}
	if got[0].Date != "2024-03-04" || got[1].Date != "2024-03-10" {
		t.Errorf("dates = %s, %s; want Monday and Sunday", got[0].Date, got[1].Date)
	}
}

// TestEffectiveStatus tests the past-confirmed reclassification.
func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name  string
		rec   reservation.Record
		today time.Time
		want  string
	}{
		{"past confirmed", record("2024-03-03", "1", "", reservation.StatusConfirmed), today, reservation.StatusCompleted},
		{"today confirmed", record("2024-03-04", "1", "", reservation.StatusConfirmed), today, reservation.StatusConfirmed},
		{"future confirmed", record("2024-03-05", "1", "", reservation.StatusConfirmed), today, reservation.StatusConfirmed},
		{"past cancelled", record("2024-03-01", "1", "", reservation.StatusCancelled), today, reservation.StatusCancelled},
		{"today late evening", record("2024-03-04", "1", "", reservation.StatusConfirmed), today.Add(23 * time.Hour), reservation.StatusConfirmed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reservation.EffectiveStatus(tt.rec, tt.today); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStatusDistribution checks the fixed label order and reclassified sums.
func TestStatusDistribution(t *testing.T) {
	records := []reservation.Record{
		record("2024-03-01", "4", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-04", "3", reservation.SlotMorning, reservation.StatusConfirmed),
		record("2024-03-04", "2", reservation.SlotEvening, reservation.StatusCancelled),
		record("2024-03-05", "x", reservation.SlotEvening, reservation.StatusLost),
	}

	got := reservation.StatusDistribution(records, today)
	want := []reservation.StatusPax{
		{Status: reservation.StatusInProgress, Pax: 0},
		{Status: reservation.StatusConfirmed, Pax: 3},
		{Status: reservation.StatusCancelled, Pax: 2},
		{Status: reservation.StatusCompleted, Pax: 4},
		{Status: reservation.StatusLost, Pax: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StatusDistribution() = %v, want %v", got, want)
	}
	if records[0].Status != reservation.StatusConfirmed {
		t.Error("stored status was modified")
	}
}
