package member

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxContactLength = 200
)

// Roles
const (
	RoleMember = "Member"
	RoleAdmin  = "Admin"
	RoleGuest  = "Guest"
)

// Roles lists the selectable roles in display order.
var Roles = []string{RoleMember, RoleAdmin, RoleGuest}

// Columns is the header row of the membership worksheet.
var Columns = []string{"Name", "Role", "Contact", "Added By"}

// Domain errors
var (
	ErrEmptyName      = errors.New("member name cannot be empty")
	ErrNameTooLong    = errors.New("member name cannot exceed 100 characters")
	ErrContactTooLong = errors.New("member contact cannot exceed 200 characters")
	ErrInvalidRole    = errors.New("role must be 'Member', 'Admin', or 'Guest'")
)

// Member is one row of the membership directory.
type Member struct {
	Name    string `validate:"notblank,max=100"`
	Role    string `validate:"member_role"`
	Contact string `validate:"max=200"`
	AddedBy string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("member_role", func(fl validator.FieldLevel) bool {
		return IsRole(fl.Field().String())
	})
	return v
}

// fieldErrors maps a failed field and tag to its domain error.
var fieldErrors = map[string]error{
	"Name.notblank":    ErrEmptyName,
	"Name.max":         ErrNameTooLong,
	"Contact.max":      ErrContactTooLong,
	"Role.member_role": ErrInvalidRole,
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns the domain error of the first failing field, nil otherwise
// INVARIANT: Name must not be blank, Role must be one of Roles
func (m *Member) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if derr, ok := fieldErrors[fe.Field()+"."+fe.Tag()]; ok {
			return derr
		}
	}
	return err
}

// ToRow renders the member in worksheet column order.
func (m Member) ToRow() []string {
	return []string{m.Name, m.Role, m.Contact, m.AddedBy}
}

// FromRow reads a worksheet row, padding short rows with empty strings.
func FromRow(cells []string) Member {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return Member{Name: get(0), Role: get(1), Contact: get(2), AddedBy: get(3)}
}

// IsRole reports whether r is a selectable role.
func IsRole(r string) bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}
