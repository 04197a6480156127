package reservation

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Draft is the transient state of the reservation form.
// It lives in the session between renders and is reset after a successful create.
type Draft struct {
	Name           string `validate:"required,max=200"`
	Company        string `validate:"max=200"`
	ContactNumber  string `validate:"max=50"`
	TSLead         string `validate:"max=100"`
	Pax            int    `validate:"min=1"`
	AdvancePayment string `validate:"max=100"`
	Type           string `validate:"reservation_type"`
	Date           string `validate:"required,datetime=2006-01-02"`
	TimeSlot       string `validate:"time_slot"`
	Notes          string `validate:"max=2000"`
	Status         string `validate:"reservation_status"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	oneOf := func(options []string) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return IsOption(fl.Field().String(), options)
		}
	}
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("reservation_type", oneOf(Types))
	_ = v.RegisterValidation("time_slot", oneOf(TimeSlots))
	_ = v.RegisterValidation("reservation_status", oneOf(Statuses))
	return v
}

// NewDraft returns a draft holding the form defaults.
func NewDraft(today time.Time) Draft {
	var d Draft
	d.Reset(today)
	return d
}

// Reset restores every field to its default so the next create starts clean.
// POST: text fields empty, Pax=1, first option of each list, Date=today
func (d *Draft) Reset(today time.Time) {
	*d = Draft{
		Pax:      1,
		Type:     TypeMeeting,
		Date:     today.Format(DateLayout),
		TimeSlot: SlotMorning,
		Status:   StatusInProgress,
	}
}

// Trim removes surrounding whitespace from the free-text fields.
func (d *Draft) Trim() {
	d.Name = strings.TrimSpace(d.Name)
	d.Company = strings.TrimSpace(d.Company)
	d.ContactNumber = strings.TrimSpace(d.ContactNumber)
	d.TSLead = strings.TrimSpace(d.TSLead)
	d.AdvancePayment = strings.TrimSpace(d.AdvancePayment)
	d.Date = strings.TrimSpace(d.Date)
	d.Notes = strings.TrimSpace(d.Notes)
}

// Validate checks the draft against the form constraints.
// PRE: Draft is populated from user input
// POST: Returns nil if valid, a *ValidationError naming the bad fields otherwise
// INVARIANT: Pax >= 1, enums are members of their option lists
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
	}
	return out
}

// ValidationError lists the draft fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid reservation fields: " + strings.Join(e.Fields, ", ")
}

// Apply copies the editable draft fields onto a reservation.
// Identity and provenance fields (AuditTrailID, SubmittedAt, SubmittedBy) are untouched.
func (d Draft) Apply(r Reservation) Reservation {
	r.Name = d.Name
	r.Company = d.Company
	r.ContactNumber = d.ContactNumber
	r.TSLead = d.TSLead
	r.Pax = d.Pax
	r.AdvancePayment = d.AdvancePayment
	r.Type = d.Type
	r.Date = d.Date
	r.TimeSlot = d.TimeSlot
	r.Notes = d.Notes
	r.Status = d.Status
	return r
}

// DraftFromRecord loads a stored row as edit-form defaults.
// Enum values are mapped back onto the fixed option lists; a value outside a
// list is reported as ErrUnknownOption rather than guessed. A stored pax below 1,
// non-numeric text included, is kept as is so the form shows it and Validate
// rejects it until corrected.
func DraftFromRecord(rec Record) (Draft, error) {
	typ, err := CanonicalOption("reservation type", rec.Type, Types)
	if err != nil {
		return Draft{}, err
	}
	slot, err := CanonicalOption("time slot", rec.TimeSlot, TimeSlots)
	if err != nil {
		return Draft{}, err
	}
	status, err := CanonicalOption("status", rec.Status, Statuses)
	if err != nil {
		return Draft{}, err
	}

	date := ""
	if rec.HasDate {
		date = rec.Day.Format(DateLayout)
	}

	return Draft{
		Name:           rec.Name,
		Company:        rec.Company,
		ContactNumber:  rec.ContactNumber,
		TSLead:         rec.TSLead,
		Pax:            int(math.Floor(rec.PaxValue)),
		AdvancePayment: rec.AdvancePayment,
		Type:           typ,
		Date:           date,
		TimeSlot:       slot,
		Notes:          rec.Notes,
		Status:         status,
	}, nil
}

