package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pet is a boarded animal. BookingIDs is the inverse side of Booking.PetID
// and is kept consistent by the repository layer.
type Pet struct {
	ID         uuid.UUID
	OwnerID    *uuid.UUID
	Name       string
	Type       PetType
	Breed      string
	Size       PetSize
	BookingIDs []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CreatedBy  *uuid.UUID
	UpdatedBy  *uuid.UUID

	// Populated references.
	Owner    *UserRef
	Bookings []BookingRef
}

// PetRef is the populated summary of a pet reference.
type PetRef struct {
	ID      uuid.UUID
	OwnerID *uuid.UUID
	Name    string
	Type    PetType
	Breed   string
	Size    PetSize
}

// Label renders the pet for autocomplete lists.
func (p PetRef) Label() string {
	return p.Name
}

// PetInput holds the fields of a new pet.
type PetInput struct {
	Owner    *uuid.UUID
	Name     string
	Type     PetType
	Breed    string
	Size     PetSize
	Bookings []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i PetInput) Validate() error {
	var errs fieldErrors
	validatePetName(&errs, i.Name)
	validatePetBreed(&errs, i.Breed)
	if !i.Type.IsValid() {
		errs.add("type", requiredOrInvalid(string(i.Type)))
	}
	if !i.Size.IsValid() {
		errs.add("size", requiredOrInvalid(string(i.Size)))
	}
	validateIDs(&errs, "bookings", i.Bookings)
	return errs.err()
}

// AuditValues returns the submitted fields.
func (i PetInput) AuditValues() map[string]any {
	v := auditValues{
		"name":  strings.TrimSpace(i.Name),
		"type":  string(i.Type),
		"breed": strings.TrimSpace(i.Breed),
		"size":  string(i.Size),
	}
	v.id("owner", i.Owner)
	v.ids("bookings", i.Bookings)
	return v
}

// PetUpdate holds a partial update of a pet.
//
// Owner: nil = don't change; ptr(uuid.Nil) = clear.
// Bookings: nil = don't change; a non-nil slice (possibly empty) replaces the list.
type PetUpdate struct {
	Owner    *uuid.UUID
	Name     *string
	Type     *PetType
	Breed    *string
	Size     *PetSize
	Bookings []uuid.UUID
}

// Validate checks all present fields and collects all errors.
func (i PetUpdate) Validate() error {
	var errs fieldErrors
	if i.Name != nil {
		validatePetName(&errs, *i.Name)
	}
	if i.Breed != nil {
		validatePetBreed(&errs, *i.Breed)
	}
	if i.Type != nil && !i.Type.IsValid() {
		errs.add("type", "invalid value")
	}
	if i.Size != nil && !i.Size.IsValid() {
		errs.add("size", "invalid value")
	}
	validateIDs(&errs, "bookings", i.Bookings)
	return errs.err()
}

// AuditValues returns the submitted fields.
func (i PetUpdate) AuditValues() map[string]any {
	v := auditValues{}
	v.id("owner", i.Owner)
	v.str("name", i.Name)
	if i.Type != nil {
		v["type"] = string(*i.Type)
	}
	v.str("breed", i.Breed)
	if i.Size != nil {
		v["size"] = string(*i.Size)
	}
	v.ids("bookings", i.Bookings)
	return v
}

func validatePetName(errs *fieldErrors, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		errs.add("name", "required")
	}
	if len(name) > 255 {
		errs.add("name", "max 255 characters")
	}
}

func validatePetBreed(errs *fieldErrors, breed string) {
	breed = strings.TrimSpace(breed)
	if breed == "" {
		errs.add("breed", "required")
	}
	if len(breed) > 255 {
		errs.add("breed", "max 255 characters")
	}
}

func validateIDs(errs *fieldErrors, field string, ids []uuid.UUID) {
	for _, id := range ids {
		if id == uuid.Nil {
			errs.add(field, "contains an empty id")
			return
		}
	}
}

func requiredOrInvalid(v string) string {
	if v == "" {
		return "required"
	}
	return "invalid value"
}
