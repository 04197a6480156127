package reservation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the stored format of reservation_date.
const DateLayout = "2006-01-02"

// Reservation types
const (
	TypeMeeting      = "Meeting"
	TypeEvent        = "Event"
	TypeWorkshop     = "Workshop"
	TypeFamily       = "Family Get-together"
	TypeOfficeGroup  = "Office Group"
	legacyTypeFamily = "Famili Getogether"
)

// Time slots
const (
	SlotMorning   = "Morning"
	SlotAfternoon = "Afternoon"
	SlotEvening   = "Evening"
)

// Statuses
const (
	StatusInProgress = "In-Progress"
	StatusConfirmed  = "Confirmed"
	StatusCancelled  = "Cancelled"
	StatusCompleted  = "Completed"
	StatusLost       = "Lost"
)

// Option lists, in display order.
var (
	Types     = []string{TypeMeeting, TypeEvent, TypeWorkshop, TypeFamily, TypeOfficeGroup}
	TimeSlots = []string{SlotMorning, SlotAfternoon, SlotEvening}
	Statuses  = []string{StatusInProgress, StatusConfirmed, StatusCancelled, StatusCompleted, StatusLost}
)

// typeAliases maps spellings found in older sheets onto the current option list.
var typeAliases = map[string]string{
	legacyTypeFamily: TypeFamily,
}

// Domain errors
var (
	ErrMissingDateColumn = errors.New("'reservation_date' column not found, verify the sheet headers")
	ErrNotFound          = errors.New("reservation not found")
	ErrUnknownOption     = errors.New("stored value is not one of the allowed options")
)

// Column names of the reservation sheet, in positional order.
const (
	ColName           = "name"
	ColCompany        = "company"
	ColContactNumber  = "contact_number"
	ColTSLead         = "ts_lead"
	ColPax            = "pax"
	ColAdvancePayment = "advance_payment"
	ColType           = "reservation_type"
	ColDate           = "reservation_date"
	ColTimeSlot       = "time_slot"
	ColNotes          = "notes"
	ColSubmittedBy    = "submitted_by_email"
	ColSubmittedAt    = "submitted_at"
	ColAuditTrailID   = "audit_trail_id"
	ColStatus         = "status"
)

// Columns lists the canonical column names in row order.
var Columns = []string{
	ColName, ColCompany, ColContactNumber, ColTSLead, ColPax, ColAdvancePayment,
	ColType, ColDate, ColTimeSlot, ColNotes, ColSubmittedBy, ColSubmittedAt,
	ColAuditTrailID, ColStatus,
}

// Header is the human-readable header row written to a fresh sheet.
var Header = []string{
	"Name", "Company", "Contact Number", "T&S Lead", "PAX", "Advance Payment",
	"Reservation Type", "Reservation Date", "Time Slot", "Notes",
	"Submitted By Email", "Submitted At", "Audit Trail ID", "Status",
}

// headerAliases maps normalised spellings that differ from the canonical names.
var headerAliases = map[string]string{
	"t&s_lead":     ColTSLead,
	"submitted_by": ColSubmittedBy,
}

// Reservation is one row of the reservation sheet.
type Reservation struct {
	Name           string
	Company        string
	ContactNumber  string
	TSLead         string
	Pax            int
	AdvancePayment string
	Type           string
	Date           string // YYYY-MM-DD
	TimeSlot       string
	Notes          string
	SubmittedBy    string
	SubmittedAt    string // RFC 3339, UTC
	AuditTrailID   string
	Status         string
}

// Record is a Reservation read back from the sheet with its coerced values.
type Record struct {
	Reservation
	Row      int       // 1-based sheet row (header is row 1)
	PaxValue float64   // pax coerced with ParseNumberOrZero
	Day      time.Time // parsed reservation_date; zero if HasDate is false
	HasDate  bool
}

// ToRow renders the reservation in the fixed 14-column order.
// POST: len(result) == len(Columns)
func (r Reservation) ToRow() []string {
	return []string{
		r.Name, r.Company, r.ContactNumber, r.TSLead, strconv.Itoa(r.Pax),
		r.AdvancePayment, r.Type, r.Date, r.TimeSlot, r.Notes,
		r.SubmittedBy, r.SubmittedAt, r.AuditTrailID, r.Status,
	}
}

// Summary is the human-readable audit detail for a create or edit.
func (r Reservation) Summary() string {
	return fmt.Sprintf("%s for %s | Audit ID: %s", r.Type, r.Date, r.AuditTrailID)
}

// NormalizeHeader converts a sheet header cell to its canonical column name.
func NormalizeHeader(h string) string {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	if alias, ok := headerAliases[n]; ok {
		return alias
	}
	return n
}

// IndexHeader maps canonical column names to their position in the header row.
// PRE: header is the first row of the sheet
// POST: Returns ErrMissingDateColumn if reservation_date is absent
func IndexHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}
	if _, ok := index[ColDate]; !ok {
		return nil, ErrMissingDateColumn
	}
	return index, nil
}

// ParseRecord builds a Record from one data row using a header index.
// Missing trailing cells read as empty strings; bad dates and pax are coerced.
func ParseRecord(cells []string, index map[string]int, row int) Record {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	paxRaw := get(ColPax)
	pax := ParseNumberOrZero(paxRaw)
	day, ok := ParseDateOrNull(get(ColDate))

	return Record{
		Reservation: Reservation{
			Name:           get(ColName),
			Company:        get(ColCompany),
			ContactNumber:  get(ColContactNumber),
			TSLead:         get(ColTSLead),
			Pax:            int(math.Floor(pax)),
			AdvancePayment: get(ColAdvancePayment),
			Type:           get(ColType),
			Date:           get(ColDate),
			TimeSlot:       get(ColTimeSlot),
			Notes:          get(ColNotes),
			SubmittedBy:    get(ColSubmittedBy),
			SubmittedAt:    get(ColSubmittedAt),
			AuditTrailID:   get(ColAuditTrailID),
			Status:         get(ColStatus),
		},
		Row:      row,
		PaxValue: pax,
		Day:      day,
		HasDate:  ok,
	}
}

// ParseDateOrNull parses a YYYY-MM-DD calendar date.
// Unparsable input yields (zero, false) and never an error, so malformed
// rows drop out of date comparisons instead of halting a render.
func ParseDateOrNull(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParseNumberOrZero parses a numeric cell, returning 0 for anything non-numeric.
// NaN and infinities also become 0.
func ParseNumberOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CanonicalOption matches a stored value against an option list.
// Known legacy spellings are mapped first. Anything else is ErrUnknownOption.
func CanonicalOption(field, value string, options []string) (string, error) {
	if alias, ok := typeAliases[value]; ok {
		value = alias
	}
	for _, o := range options {
		if o == value {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrUnknownOption, field, value)
}

// IsOption reports whether value is one of options.
func IsOption(value string, options []string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
