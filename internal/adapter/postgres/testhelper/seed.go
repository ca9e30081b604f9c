package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts an active employee directly, bypassing the repositories
// and the audit log. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	first, last := "Test", "User "+suffix
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		FirstName: &first,
		LastName:  &last,
		Roles:     []domain.UserRole{domain.UserRoleEmployee},
		Status:    domain.UserStatusActive,
	}
	user.FullName = domain.BuildFullName(user.FirstName, user.LastName)

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (id, email, first_name, last_name, full_name, roles, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		user.ID, user.Email, first, last, user.FullName, []string{string(domain.UserRoleEmployee)}, string(user.Status),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedPet inserts a dog owned by owner (may be nil) with an empty booking list.
func SeedPet(t *testing.T, pool *pgxpool.Pool, owner *uuid.UUID) domain.Pet {
	t.Helper()

	pet := domain.Pet{
		ID:         uuid.New(),
		OwnerID:    owner,
		Name:       "Pet " + uniqueSuffix(),
		Type:       domain.PetTypeDog,
		Breed:      "Beagle",
		Size:       domain.PetSizeMedium,
		BookingIDs: []uuid.UUID{},
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO pets (id, owner, name, type, breed, size)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		pet.ID, owner, pet.Name, string(pet.Type), pet.Breed, string(pet.Size),
	).Scan(&pet.CreatedAt, &pet.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedPet insert: %v", err)
	}

	return pet
}

// SeedBooking inserts a booked stay without a pet. No relation sync runs.
func SeedBooking(t *testing.T, pool *pgxpool.Pool, owner *uuid.UUID, arrival time.Time, days int) domain.Booking {
	t.Helper()

	fee := decimal.NewFromInt(int64(days) * 25)
	booking := domain.Booking{
		ID:        uuid.New(),
		OwnerID:   owner,
		Arrival:   arrival.UTC(),
		Departure: arrival.UTC().AddDate(0, 0, days),
		Status:    domain.BookingStatusBooked,
		Fee:       &fee,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO bookings (id, owner, arrival, departure, status, fee)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		booking.ID, owner, booking.Arrival, booking.Departure, string(booking.Status), fee,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedBooking insert: %v", err)
	}

	return booking
}

// ActorCtx seeds a user and returns a context acting as that user.
func ActorCtx(t *testing.T, pool *pgxpool.Pool) (context.Context, domain.User) {
	t.Helper()
	actor := SeedUser(t, pool)
	return ctxutil.WithActor(context.Background(), actor.ID), actor
}

// AuditCount returns the number of audit entries recorded for the entity.
func AuditCount(t *testing.T, pool *pgxpool.Pool, entityID uuid.UUID, action domain.AuditAction) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM audit_logs WHERE entity_id = $1 AND action = $2`,
		entityID, string(action),
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: AuditCount: %v", err)
	}
	return n
}

// PetBookings returns the booking list stored on the pet row.
func PetBookings(t *testing.T, pool *pgxpool.Pool, petID uuid.UUID) []uuid.UUID {
	t.Helper()

	var raw []string
	err := pool.QueryRow(context.Background(),
		`SELECT bookings::text[] FROM pets WHERE id = $1`, petID,
	).Scan(&raw)
	if err != nil {
		t.Fatalf("testhelper: PetBookings: %v", err)
	}

	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		ids[i] = uuid.MustParse(s)
	}
	return ids
}

// BookingPetID returns the pet reference stored on the booking row.
func BookingPetID(t *testing.T, pool *pgxpool.Pool, bookingID uuid.UUID) *uuid.UUID {
	t.Helper()

	var pet *string
	err := pool.QueryRow(context.Background(),
		`SELECT pet::text FROM bookings WHERE id = $1`, bookingID,
	).Scan(&pet)
	if err != nil {
		t.Fatalf("testhelper: BookingPetID: %v", err)
	}
	if pet == nil {
		return nil
	}
	id := uuid.MustParse(*pet)
	return &id
}
