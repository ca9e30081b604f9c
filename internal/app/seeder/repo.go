// Package seeder loads YAML fixtures into the database through the services.
package seeder

import (
	"context"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

// Services is the set of write operations consumed by the pipeline. All
// methods take the actor from the context.
type Services struct {
	// Register creates a user without an actor; the new user is its own
	// creator. Used only when no actor is given.
	Register func(ctx context.Context, in domain.UserInput) (domain.User, error)

	Users    UserCreator
	Pets     PetCreator
	Bookings BookingCreator
	Settings SettingsSaver
}

// UserCreator is implemented by crud.UserService.
type UserCreator interface {
	Create(ctx context.Context, in domain.UserInput) (domain.User, error)
}

// PetCreator is implemented by crud.PetService.
type PetCreator interface {
	Create(ctx context.Context, in domain.PetInput) (domain.Pet, error)
}

// BookingCreator is implemented by crud.BookingService.
type BookingCreator interface {
	Create(ctx context.Context, in domain.BookingInput) (domain.Booking, error)
}

// SettingsSaver is implemented by settings.Service.
type SettingsSaver interface {
	Save(ctx context.Context, in domain.SettingsInput) (domain.Settings, error)
}

type refs map[string]uuid.UUID

func (r refs) lookup(key string) *uuid.UUID {
	if key == "" {
		return nil
	}
	id, ok := r[key]
	if !ok {
		return nil
	}
	return &id
}
