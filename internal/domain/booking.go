package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxNotesLength = 20000

// Booking is a boarding stay of one pet.
type Booking struct {
	ID                uuid.UUID
	OwnerID           *uuid.UUID
	PetID             *uuid.UUID
	Arrival           time.Time
	Departure         time.Time
	ClientNotes       *string
	EmployeeNotes     *string
	Status            BookingStatus
	CancellationNotes *string
	Fee               *decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CreatedBy         *uuid.UUID
	UpdatedBy         *uuid.UUID

	// Populated references.
	Owner *UserRef
	Pet   *PetRef
}

// BookingRef is the populated summary of a booking reference.
type BookingRef struct {
	ID        uuid.UUID
	PetID     *uuid.UUID
	Arrival   time.Time
	Departure time.Time
	Status    BookingStatus
}

// Label renders the booking as "arrival - departure (status)".
func (b BookingRef) Label() string {
	const layout = "2006-01-02 15:04"
	return b.Arrival.Format(layout) + " - " + b.Departure.Format(layout) + " (" + string(b.Status) + ")"
}

// BookingInput holds the fields of a new booking.
type BookingInput struct {
	Owner             *uuid.UUID
	Pet               *uuid.UUID
	Arrival           time.Time
	Departure         time.Time
	ClientNotes       *string
	EmployeeNotes     *string
	Status            BookingStatus
	CancellationNotes *string
	Fee               *decimal.Decimal
}

// Validate checks all fields and collects all errors.
func (i BookingInput) Validate() error {
	var errs fieldErrors
	if i.Arrival.IsZero() {
		errs.add("arrival", "required")
	}
	if i.Departure.IsZero() {
		errs.add("departure", "required")
	}
	if !i.Arrival.IsZero() && !i.Departure.IsZero() && i.Departure.Before(i.Arrival) {
		errs.add("departure", "must not be before arrival")
	}
	if !i.Status.IsValid() {
		errs.add("status", requiredOrInvalid(string(i.Status)))
	}
	validateNotes(&errs, i.ClientNotes, i.EmployeeNotes, i.CancellationNotes)
	validateFee(&errs, i.Fee)
	return errs.err()
}

// AuditValues returns the submitted fields.
func (i BookingInput) AuditValues() map[string]any {
	v := auditValues{"status": string(i.Status)}
	v.id("owner", i.Owner)
	v.id("pet", i.Pet)
	v.time("arrival", &i.Arrival)
	v.time("departure", &i.Departure)
	v.str("clientNotes", i.ClientNotes)
	v.str("employeeNotes", i.EmployeeNotes)
	v.str("cancellationNotes", i.CancellationNotes)
	v.decimal("fee", i.Fee)
	return v
}

// BookingUpdate holds a partial update of a booking. Nil fields are left
// unchanged; Owner and Pet set to ptr(uuid.Nil) clear the reference.
type BookingUpdate struct {
	Owner             *uuid.UUID
	Pet               *uuid.UUID
	Arrival           *time.Time
	Departure         *time.Time
	ClientNotes       *string
	EmployeeNotes     *string
	Status            *BookingStatus
	CancellationNotes *string
	Fee               *decimal.Decimal
}

// Validate checks all present fields and collects all errors. The
// arrival/departure order across a partial update is enforced by the store.
func (i BookingUpdate) Validate() error {
	var errs fieldErrors
	if i.Arrival != nil && i.Arrival.IsZero() {
		errs.add("arrival", "required")
	}
	if i.Departure != nil && i.Departure.IsZero() {
		errs.add("departure", "required")
	}
	if i.Arrival != nil && i.Departure != nil && i.Departure.Before(*i.Arrival) {
		errs.add("departure", "must not be before arrival")
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs.add("status", "invalid value")
	}
	validateNotes(&errs, i.ClientNotes, i.EmployeeNotes, i.CancellationNotes)
	validateFee(&errs, i.Fee)
	return errs.err()
}

// AuditValues returns the submitted fields.
func (i BookingUpdate) AuditValues() map[string]any {
	v := auditValues{}
	v.id("owner", i.Owner)
	v.id("pet", i.Pet)
	v.time("arrival", i.Arrival)
	v.time("departure", i.Departure)
	v.str("clientNotes", i.ClientNotes)
	v.str("employeeNotes", i.EmployeeNotes)
	if i.Status != nil {
		v["status"] = string(*i.Status)
	}
	v.str("cancellationNotes", i.CancellationNotes)
	v.decimal("fee", i.Fee)
	return v
}

func validateNotes(errs *fieldErrors, client, employee, cancellation *string) {
	for field, s := range map[string]*string{
		"clientNotes":       client,
		"employeeNotes":     employee,
		"cancellationNotes": cancellation,
	} {
		if s != nil && len(strings.TrimSpace(*s)) > maxNotesLength {
			errs.add(field, "max 20000 characters")
		}
	}
}

func validateFee(errs *fieldErrors, fee *decimal.Decimal) {
	if fee != nil && fee.IsNegative() {
		errs.add("fee", "must not be negative")
	}
}
