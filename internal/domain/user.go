package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an application user: staff member or pet owner.
type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    *string
	LastName     *string
	FullName     string
	PhoneNumber  *string
	PasswordHash string
	Roles        []UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    *uuid.UUID
	UpdatedBy    *uuid.UUID
}

// UserRef is the populated summary of a user reference.
type UserRef struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// Label renders the user for autocomplete lists.
func (u UserRef) Label() string {
	if u.FullName == "" {
		return u.Email
	}
	return u.FullName + " <" + u.Email + ">"
}

// BuildFullName joins first and last name, skipping absent parts.
func BuildFullName(first, last *string) string {
	var parts []string
	for _, p := range []*string{first, last} {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(*p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeEmail trims and lowercases an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserInput holds the fields of a new user.
type UserInput struct {
	Email       string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Password    *string
	Roles       []UserRole
	Status      UserStatus
}

// Validate checks all fields and collects all errors.
func (i UserInput) Validate() error {
	var errs fieldErrors
	validateEmail(&errs, i.Email)
	validateNames(&errs, i.FirstName, i.LastName, i.PhoneNumber)
	validatePassword(&errs, i.Password)
	validateRoles(&errs, i.Roles)
	if i.Status != "" && !i.Status.IsValid() {
		errs.add("status", "invalid value")
	}
	return errs.err()
}

// AuditValues returns the submitted fields. The password is never recorded.
func (i UserInput) AuditValues() map[string]any {
	v := auditValues{"email": NormalizeEmail(i.Email)}
	v.str("firstName", i.FirstName)
	v.str("lastName", i.LastName)
	v.str("phoneNumber", i.PhoneNumber)
	if i.Roles != nil {
		v["roles"] = rolesToStrings(i.Roles)
	}
	if i.Status != "" {
		v["status"] = string(i.Status)
	}
	return v
}

// UserUpdate holds a partial update of a user. Nil fields are left unchanged;
// a nil Roles slice is left unchanged, a non-nil one replaces the roles.
type UserUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Password    *string
	Roles       []UserRole
	Status      *UserStatus
}

// Validate checks all present fields and collects all errors.
func (i UserUpdate) Validate() error {
	var errs fieldErrors
	if i.Email != nil {
		validateEmail(&errs, *i.Email)
	}
	validateNames(&errs, i.FirstName, i.LastName, i.PhoneNumber)
	validatePassword(&errs, i.Password)
	validateRoles(&errs, i.Roles)
	if i.Status != nil && !i.Status.IsValid() {
		errs.add("status", "invalid value")
	}
	return errs.err()
}

// AuditValues returns the submitted fields. The password is never recorded.
func (i UserUpdate) AuditValues() map[string]any {
	v := auditValues{}
	if i.Email != nil {
		v["email"] = NormalizeEmail(*i.Email)
	}
	v.str("firstName", i.FirstName)
	v.str("lastName", i.LastName)
	v.str("phoneNumber", i.PhoneNumber)
	if i.Roles != nil {
		v["roles"] = rolesToStrings(i.Roles)
	}
	if i.Status != nil {
		v["status"] = string(*i.Status)
	}
	return v
}

func validateEmail(errs *fieldErrors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.add("email", "required")
		return
	}
	if len(email) > 255 {
		errs.add("email", "max 255 characters")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs.add("email", "invalid format")
	}
}

func validateNames(errs *fieldErrors, first, last, phone *string) {
	if first != nil && len(*first) > 80 {
		errs.add("firstName", "max 80 characters")
	}
	if last != nil && len(*last) > 175 {
		errs.add("lastName", "max 175 characters")
	}
	if phone != nil && len(*phone) > 24 {
		errs.add("phoneNumber", "max 24 characters")
	}
}

func validatePassword(errs *fieldErrors, password *string) {
	if password == nil {
		return
	}
	if len(*password) < 8 {
		errs.add("password", "min 8 characters")
	}
	// bcrypt ignores everything past 72 bytes.
	if len(*password) > 72 {
		errs.add("password", "max 72 characters")
	}
}

func validateRoles(errs *fieldErrors, roles []UserRole) {
	for _, r := range roles {
		if !r.IsValid() {
			errs.add("roles", "invalid value "+string(r))
		}
	}
}

func rolesToStrings(roles []UserRole) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
