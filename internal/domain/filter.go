package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingFilter contains the filter keys accepted by booking searches.
// Nil fields and open ranges are not applied.
type BookingFilter struct {
	ID             *uuid.UUID
	Owner          *uuid.UUID
	Pet            *uuid.UUID
	ArrivalRange   Range[time.Time]
	DepartureRange Range[time.Time]
	Status         *BookingStatus
	FeeRange       Range[decimal.Decimal]
	CreatedAtRange Range[time.Time]
}

// PetFilter contains the filter keys accepted by pet searches.
// Name and Breed match case-insensitive substrings.
type PetFilter struct {
	ID             *uuid.UUID
	Owner          *uuid.UUID
	Name           *string
	Type           *PetType
	Breed          *string
	Size           *PetSize
	CreatedAtRange Range[time.Time]
}

// UserFilter contains the filter keys accepted by user searches.
// Email and FullName match case-insensitive substrings.
type UserFilter struct {
	ID             *uuid.UUID
	Email          *string
	FullName       *string
	Role           *UserRole
	Status         *UserStatus
	CreatedAtRange Range[time.Time]
}

// AuditLogFilter contains the filter keys accepted by audit log searches.
type AuditLogFilter struct {
	EntityID       *uuid.UUID
	EntityNames    []EntityName
	Action         *AuditAction
	CreatedBy      *uuid.UUID
	TimestampRange Range[time.Time]
}
