package domain

// PetType is the species of a boarded pet.
type PetType string

const (
	PetTypeCat PetType = "cat"
	PetTypeDog PetType = "dog"
)

func (t PetType) String() string { return string(t) }

func (t PetType) IsValid() bool {
	switch t {
	case PetTypeCat, PetTypeDog:
		return true
	}
	return false
}

// PetSize is the size class of a pet, used for kennel allocation.
type PetSize string

const (
	PetSizeSmall  PetSize = "small"
	PetSizeMedium PetSize = "medium"
	PetSizeLarge  PetSize = "large"
)

func (s PetSize) String() string { return string(s) }

func (s PetSize) IsValid() bool {
	switch s {
	case PetSizeSmall, PetSizeMedium, PetSizeLarge:
		return true
	}
	return false
}

// BookingStatus tracks a booking through its stay.
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusProgress  BookingStatus = "progress"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) String() string { return string(s) }

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusBooked, BookingStatusProgress, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// UserRole is a permission role assigned to a user.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
	UserRolePetOwner UserRole = "petOwner"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleEmployee, UserRolePetOwner:
		return true
	}
	return false
}

// UserStatus is the account state of a user.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited"
	UserStatusDisabled UserStatus = "disabled"
)

func (s UserStatus) String() string { return string(s) }

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInvited, UserStatusDisabled:
		return true
	}
	return false
}

// EntityName identifies the kind of entity recorded in the audit log.
type EntityName string

const (
	EntityUser     EntityName = "user"
	EntityPet      EntityName = "pet"
	EntityBooking  EntityName = "booking"
	EntitySettings EntityName = "settings"
)

func (e EntityName) String() string { return string(e) }

func (e EntityName) IsValid() bool {
	switch e {
	case EntityUser, EntityPet, EntityBooking, EntitySettings:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}
