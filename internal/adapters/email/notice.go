package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"venuedesk/internal/domain/reservation"
)

// NoticeKind says whether a reservation was created or edited.
type NoticeKind string

const (
	NoticeCreated NoticeKind = "New reservation"
	NoticeEdited  NoticeKind = "Reservation updated"
)

var noticeTmpl = template.Must(template.New("notice").Parse(`<h2>{{.Kind}}</h2>
<table>
<tr><th align="left">Name</th><td>{{.R.Name}}</td></tr>
<tr><th align="left">Company</th><td>{{.R.Company}}</td></tr>
<tr><th align="left">Contact</th><td>{{.R.ContactNumber}}</td></tr>
<tr><th align="left">T&amp;S Lead</th><td>{{.R.TSLead}}</td></tr>
<tr><th align="left">Date</th><td>{{.R.Date}} ({{.R.TimeSlot}})</td></tr>
<tr><th align="left">Type</th><td>{{.R.Type}}</td></tr>
<tr><th align="left">PAX</th><td>{{.R.Pax}}</td></tr>
<tr><th align="left">Status</th><td>{{.R.Status}}</td></tr>
<tr><th align="left">By</th><td>{{.R.SubmittedBy}}</td></tr>
</table>
{{if .Notes}}<h3>Notes</h3>{{.Notes}}{{end}}
<p><small>Audit ID: {{.R.AuditTrailID}}</small></p>
`))

// ReservationNotice builds the staff notification for a create or edit.
// Notes are rendered from markdown; raw HTML in notes is escaped.
// PRE: to is non-empty
func ReservationNotice(kind NoticeKind, r reservation.Reservation, to []string) (SendRequest, error) {
	var notes bytes.Buffer
	if strings.TrimSpace(r.Notes) != "" {
		if err := goldmark.Convert([]byte(r.Notes), &notes); err != nil {
			return SendRequest{}, fmt.Errorf("render notes: %w", err)
		}
	}

	var body bytes.Buffer
	err := noticeTmpl.Execute(&body, struct {
		Kind  NoticeKind
		R     reservation.Reservation
		Notes template.HTML
	}{kind, r, template.HTML(notes.String())})
	if err != nil {
		return SendRequest{}, fmt.Errorf("render notice: %w", err)
	}

	return SendRequest{
		To:      to,
		Subject: fmt.Sprintf("%s: %s", kind, r.Summary()),
		HTML:    body.String(),
		Text:    fmt.Sprintf("%s\n%s, %d pax, %s (%s)\n", kind, r.Name, r.Pax, r.Date, r.Status),
	}, nil
}
