package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"venuedesk/internal/adapters/http/middleware"
	"venuedesk/internal/application/listutil"
	"venuedesk/internal/application/orchestrators"
	"venuedesk/internal/application/projections"
	"venuedesk/internal/domain/reservation"
	"venuedesk/internal/domain/window"
)

// manageData returns the template data shared by every /manage render.
func manageData(mode string) map[string]any {
	return map[string]any{
		"Mode":     mode,
		"Types":    reservation.Types,
		"Slots":    reservation.TimeSlots,
		"Statuses": reservation.Statuses,
	}
}

// draftFromForm reads the reservation form fields.
// A non-numeric pax becomes 0 and fails validation.
func draftFromForm(r *http.Request) reservation.Draft {
	pax, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("pax")))
	return reservation.Draft{
		Name:           r.FormValue("name"),
		Company:        r.FormValue("company"),
		ContactNumber:  r.FormValue("contact_number"),
		TSLead:         r.FormValue("ts_lead"),
		Pax:            pax,
		AdvancePayment: r.FormValue("advance_payment"),
		Type:           r.FormValue("reservation_type"),
		Date:           r.FormValue("reservation_date"),
		TimeSlot:       r.FormValue("time_slot"),
		Notes:          r.FormValue("notes"),
		Status:         r.FormValue("status"),
	}
}

func validationFields(err error) ([]string, bool) {
	var verr *reservation.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// handleManage handles GET /manage?mode=add|edit
func handleManage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess := currentSession(r)
	q := r.URL.Query()
	today := timeNow()

	if q.Get("mode") != "edit" {
		if !sess.HasDraft {
			sess.Draft = reservation.NewDraft(today)
			sess.HasDraft = true
		}
		data := manageData("add")
		data["Flash"] = sess.TakeFlash()
		data["Draft"] = sess.Draft
		middleware.SaveSession(ctx, sess)
		renderTemplate(w, r, "manage.html", data)
		return
	}

	data := manageData("edit")
	data["Flash"] = sess.TakeFlash()
	status := http.StatusOK

	name := window.Parse(q.Get("window"), window.ManageOptions)
	var selected time.Time
	if name == window.SelectDate {
		if d, ok := reservation.ParseDateOrNull(q.Get("date")); ok {
			selected = d
		} else {
			selected = window.Day(today)
		}
	}
	lp := listutil.ParseListParams(q, projections.EditCandidateSortColumns, projections.EditCandidateFilterKeys)
	if c := strings.TrimSpace(q.Get("contact")); c != "" {
		lp.Search = c
	}

	cands, err := projections.QueryEditCandidates(ctx, projections.EditCandidatesQuery{
		Window:   name,
		Today:    today,
		Selected: selected,
		List:     lp,
	}, projections.EditCandidatesDeps{Store: stores.Reservations})
	if errors.Is(err, reservation.ErrMissingDateColumn) {
		data["Error"] = err.Error()
		middleware.SaveSession(ctx, sess)
		renderTemplateStatus(w, r, http.StatusInternalServerError, "manage.html", data)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	data["Options"] = window.ManageOptions
	data["Window"] = name
	data["Selected"] = selected.Format(reservation.DateLayout)
	data["Contact"] = lp.Search
	data["Candidates"] = cands
	data["Query"] = q

	auditID := q.Get("edit")
	row, _ := strconv.Atoi(q.Get("row"))
	if auditID == "" && row == 0 {
		auditID = sess.EditID
	}
	if auditID != "" || row > 0 {
		res, err := orchestrators.ExecuteBeginEdit(ctx, orchestrators.BeginEditInput{AuditID: auditID, Row: row},
			orchestrators.BeginEditDeps{Store: stores.Reservations, GenerateID: generateID})
		switch {
		case err == nil:
			sess.EditID = res.Record.AuditTrailID
			data["Edit"] = res.Record
			data["EditDraft"] = res.Draft
			data["EditID"] = res.Record.AuditTrailID
			var notices []string
			if res.Backfilled {
				notices = append(notices, "This reservation had no audit ID; one has been assigned.")
			}
			if res.Draft.Pax < 1 {
				data["Errors"] = []string{"Pax"}
				notices = append(notices, fmt.Sprintf("The stored PAX (%d) is not a valid count; correct it before saving.", res.Draft.Pax))
			}
			if len(notices) > 0 {
				data["Notice"] = strings.Join(notices, " ")
			}
		case errors.Is(err, reservation.ErrNotFound):
			sess.EditID = ""
			data["Error"] = "Reservation not found. It may have been removed from the sheet."
			status = http.StatusNotFound
		case errors.Is(err, reservation.ErrUnknownOption):
			sess.EditID = ""
			data["Error"] = "This reservation cannot be edited here: " + err.Error()
			status = http.StatusUnprocessableEntity
		default:
			internalError(w, err)
			return
		}
	}

	middleware.SaveSession(ctx, sess)
	renderTemplateStatus(w, r, status, "manage.html", data)
}

// handleCreateReservation handles POST /manage/reservations
func handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	sess := currentSession(r)
	draft := draftFromForm(r)
	sess.Draft = draft
	sess.HasDraft = true

	created, err := orchestrators.ExecuteCreateReservation(ctx, orchestrators.CreateReservationInput{
		Draft:       draft,
		SubmittedBy: sess.Email(),
	}, orchestrators.CreateReservationDeps{
		Store:      stores.Reservations,
		Audit:      auditDeps(),
		Notify:     notifyDeps,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		middleware.SaveSession(ctx, sess)
		data := manageData("add")
		data["Draft"] = draft
		status := http.StatusBadGateway
		if fields, ok := validationFields(err); ok {
			data["Errors"] = fields
			data["Error"] = "Please correct the highlighted fields."
			status = http.StatusUnprocessableEntity
		} else {
			slog.Error("reservation_create_failed", "email", sess.Email(), "error", err)
			data["Error"] = "Could not save the reservation. Please try again."
		}
		renderTemplateStatus(w, r, status, "manage.html", data)
		return
	}

	sess.Draft.Reset(timeNow())
	sess.Flash = fmt.Sprintf("Reservation saved. Audit ID: %s", created.AuditTrailID)
	middleware.SaveSession(ctx, sess)
	slog.Info("reservation_created", "audit_id", created.AuditTrailID, "email", sess.Email())
	http.Redirect(w, r, "/manage?mode=add", http.StatusSeeOther)
}

// handleUpdateReservation handles POST /manage/reservations/update
func handleUpdateReservation(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	sess := currentSession(r)
	id := r.FormValue("audit_id")
	if id == "" || id != sess.EditID {
		sess.Flash = "That edit form is out of date. Select the reservation again."
		middleware.SaveSession(ctx, sess)
		http.Redirect(w, r, "/manage?mode=edit", http.StatusSeeOther)
		return
	}
	draft := draftFromForm(r)

	updated, err := orchestrators.ExecuteUpdateReservation(ctx, orchestrators.UpdateReservationInput{
		AuditID: id,
		Draft:   draft,
		Editor:  sess.Email(),
	}, orchestrators.UpdateReservationDeps{
		Store:  stores.Reservations,
		Audit:  auditDeps(),
		Notify: notifyDeps,
	})
	if errors.Is(err, reservation.ErrNotFound) {
		sess.EditID = ""
		sess.Flash = "Reservation not found. It may have been removed from the sheet."
		middleware.SaveSession(ctx, sess)
		http.Redirect(w, r, "/manage?mode=edit", http.StatusSeeOther)
		return
	}
	if err != nil {
		data := manageData("edit")
		data["EditDraft"] = draft
		data["EditID"] = id
		status := http.StatusBadGateway
		if fields, ok := validationFields(err); ok {
			data["Errors"] = fields
			data["Error"] = "Please correct the highlighted fields."
			status = http.StatusUnprocessableEntity
		} else {
			slog.Error("reservation_update_failed", "audit_id", id, "error", err)
			data["Error"] = "Could not update the reservation. Please try again."
		}
		renderTemplateStatus(w, r, status, "manage.html", data)
		return
	}

	sess.EditID = ""
	sess.Flash = fmt.Sprintf("Reservation updated. Audit ID: %s", updated.AuditTrailID)
	middleware.SaveSession(ctx, sess)
	slog.Info("reservation_updated", "audit_id", updated.AuditTrailID, "email", sess.Email())
	http.Redirect(w, r, "/manage?mode=edit", http.StatusSeeOther)
}

// handleCancelEdit handles POST /manage/cancel
func handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := currentSession(r)
	sess.EditID = ""
	middleware.SaveSession(r.Context(), sess)
	http.Redirect(w, r, "/manage?mode=edit", http.StatusSeeOther)
}
