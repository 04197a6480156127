package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"venuedesk/internal/adapters/email"
	"venuedesk/internal/domain/audit"
	"venuedesk/internal/domain/reservation"
)

// ReservationAppender adds reservation rows.
type ReservationAppender interface {
	Append(ctx context.Context, r reservation.Reservation) error
}

// ReservationEditStore reads and rewrites reservation rows.
// Lookups read past any cache because writes are addressed by row.
type ReservationEditStore interface {
	ListFresh(ctx context.Context) ([]reservation.Record, error)
	Update(ctx context.Context, row int, r reservation.Reservation) error
	SetAuditID(ctx context.Context, row int, id string) error
}

// Notifier sends staff notifications.
type Notifier interface {
	Send(ctx context.Context, req email.SendRequest) (email.SendResult, error)
}

// NotifyDeps configures reservation notifications. A nil Sender or empty To disables them.
type NotifyDeps struct {
	Sender Notifier
	To     []string
}

// CreateReservationInput carries input for ExecuteCreateReservation.
type CreateReservationInput struct {
	Draft       reservation.Draft
	SubmittedBy string
}

// CreateReservationDeps holds dependencies for ExecuteCreateReservation.
type CreateReservationDeps struct {
	Store      ReservationAppender
	Audit      AuditDeps
	Notify     NotifyDeps
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateReservation validates the draft and appends a new reservation.
// PRE: SubmittedBy is the authenticated staff email
// POST: one row appended with a fresh audit id and UTC submitted_at; audited
// on the reservation channel; the caller resets the draft on success
func ExecuteCreateReservation(ctx context.Context, input CreateReservationInput, deps CreateReservationDeps) (reservation.Reservation, error) {
	d := input.Draft
	d.Trim()
	if err := d.Validate(); err != nil {
		return reservation.Reservation{}, err
	}

	r := d.Apply(reservation.Reservation{
		SubmittedBy:  input.SubmittedBy,
		SubmittedAt:  deps.Now().UTC().Format(time.RFC3339),
		AuditTrailID: deps.GenerateID(),
	})
	if err := deps.Store.Append(ctx, r); err != nil {
		return reservation.Reservation{}, fmt.Errorf("save reservation: %w", err)
	}

	LogEvent(ctx, deps.Audit, audit.EventReservation, input.SubmittedBy, r.Summary())
	notify(ctx, deps.Notify, email.NoticeCreated, r)
	return r, nil
}

// BeginEditInput selects the reservation to edit, by audit id or, for legacy
// rows without one, by sheet row.
type BeginEditInput struct {
	AuditID string
	Row     int
}

// BeginEditResult carries the record and the form defaults built from it.
type BeginEditResult struct {
	Record     reservation.Record
	Draft      reservation.Draft
	Backfilled bool
}

// BeginEditDeps holds dependencies for ExecuteBeginEdit.
type BeginEditDeps struct {
	Store      ReservationEditStore
	GenerateID func() string
}

// ExecuteBeginEdit loads a reservation for editing.
// A row without an audit id gets one written back first, so the row can be
// found by id from then on.
// PRE: AuditID or Row identifies a row
// POST: Record.AuditTrailID is non-empty; returns reservation.ErrNotFound or
// reservation.ErrUnknownOption on failure
func ExecuteBeginEdit(ctx context.Context, input BeginEditInput, deps BeginEditDeps) (BeginEditResult, error) {
	records, err := deps.Store.ListFresh(ctx)
	if err != nil {
		return BeginEditResult{}, err
	}
	rec, ok := find(records, input.AuditID, input.Row)
	if !ok {
		return BeginEditResult{}, reservation.ErrNotFound
	}

	var res BeginEditResult
	if rec.AuditTrailID == "" {
		id := deps.GenerateID()
		if err := deps.Store.SetAuditID(ctx, rec.Row, id); err != nil {
			return BeginEditResult{}, fmt.Errorf("backfill audit id: %w", err)
		}
		rec.AuditTrailID = id
		res.Backfilled = true
		slog.Info("audit_id_backfilled", "row", rec.Row, "audit_id", id)
	}

	d, err := reservation.DraftFromRecord(rec)
	if err != nil {
		return BeginEditResult{}, err
	}
	res.Record = rec
	res.Draft = d
	return res, nil
}

// UpdateReservationInput carries input for ExecuteUpdateReservation.
type UpdateReservationInput struct {
	AuditID string
	Draft   reservation.Draft
	Editor  string
}

// UpdateReservationDeps holds dependencies for ExecuteUpdateReservation.
type UpdateReservationDeps struct {
	Store  ReservationEditStore
	Audit  AuditDeps
	Notify NotifyDeps
}

// ExecuteUpdateReservation overwrites the row holding AuditID with the draft.
// The row is located again at save time, so rows inserted above it since the
// edit began do not misdirect the write.
// PRE: AuditID is non-empty
// POST: audit id and submitted_at are preserved; submitted_by becomes Editor
func ExecuteUpdateReservation(ctx context.Context, input UpdateReservationInput, deps UpdateReservationDeps) (reservation.Reservation, error) {
	if strings.TrimSpace(input.AuditID) == "" {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	d := input.Draft
	d.Trim()
	if err := d.Validate(); err != nil {
		return reservation.Reservation{}, err
	}

	records, err := deps.Store.ListFresh(ctx)
	if err != nil {
		return reservation.Reservation{}, err
	}
	rec, ok := find(records, input.AuditID, 0)
	if !ok {
		return reservation.Reservation{}, reservation.ErrNotFound
	}

	updated := d.Apply(rec.Reservation)
	updated.SubmittedBy = input.Editor
	if err := deps.Store.Update(ctx, rec.Row, updated); err != nil {
		return reservation.Reservation{}, fmt.Errorf("update reservation: %w", err)
	}

	LogEvent(ctx, deps.Audit, audit.EventReservationEdited, input.Editor, updated.Summary())
	notify(ctx, deps.Notify, email.NoticeEdited, updated)
	return updated, nil
}

// find locates a record by audit id, or by row when id is empty.
func find(records []reservation.Record, id string, row int) (reservation.Record, bool) {
	for _, rec := range records {
		if id != "" && rec.AuditTrailID == id {
			return rec, true
		}
		if id == "" && row > 0 && rec.Row == row {
			return rec, true
		}
	}
	return reservation.Record{}, false
}

// notify sends a best-effort staff notification.
func notify(ctx context.Context, deps NotifyDeps, kind email.NoticeKind, r reservation.Reservation) {
	if deps.Sender == nil || len(deps.To) == 0 {
		return
	}
	req, err := email.ReservationNotice(kind, r, deps.To)
	if err != nil {
		slog.Error("notice_render_failed", "audit_id", r.AuditTrailID, "error", err)
		return
	}
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		slog.Error("notice_send_failed", "audit_id", r.AuditTrailID, "error", err)
	}
}
