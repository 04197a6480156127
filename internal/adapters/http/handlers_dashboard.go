package web

import (
	"errors"
	"net/http"

	"venuedesk/internal/application/projections"
	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/domain/window"
)

// handleDashboard handles GET /dashboard?window=
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := window.Parse(r.URL.Query().Get("window"), window.DashboardOptions)

	res, err := projections.QueryReservationSummary(r.Context(), projections.ReservationSummaryQuery{
		Window: name,
		Today:  timeNow(),
	}, projections.ReservationSummaryDeps{Store: stores.Reservations})
	if errors.Is(err, reservation.ErrMissingDateColumn) {
		renderTemplateStatus(w, r, http.StatusInternalServerError, "dashboard.html", map[string]any{
			"Options": window.DashboardOptions,
			"Window":  name,
			"Error":   err.Error(),
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	maxPax := 0
	for _, sp := range res.Distribution {
		if sp.Pax > maxPax {
			maxPax = sp.Pax
		}
	}
	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Options":  window.DashboardOptions,
		"Window":   name,
		"Result":   res,
		"MaxPax":   maxPax,
		"Slots":    reservation.TimeSlots,
		"Statuses": reservation.Statuses,
	})
}
