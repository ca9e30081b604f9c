package populate

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/domain"
)

type userRefRow struct {
	ID       uuid.UUID `db:"id"`
	Email    string    `db:"email"`
	FullName string    `db:"full_name"`
}

type petRefRow struct {
	ID    uuid.UUID  `db:"id"`
	Owner *uuid.UUID `db:"owner"`
	Name  string     `db:"name"`
	Type  string     `db:"type"`
	Breed string     `db:"breed"`
	Size  string     `db:"size"`
}

type bookingRefRow struct {
	ID        uuid.UUID  `db:"id"`
	Pet       *uuid.UUID `db:"pet"`
	Arrival   time.Time  `db:"arrival"`
	Departure time.Time  `db:"departure"`
	Status    string     `db:"status"`
}

func (r *Resolver) fetchUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserRef, error) {
	var rows []userRefRow
	if err := r.selectByIDs(ctx, &rows, "users", ids, "id", "email", "full_name"); err != nil {
		return nil, fmt.Errorf("populate users: %w", err)
	}

	out := make(map[uuid.UUID]domain.UserRef, len(rows))
	for _, row := range rows {
		out[row.ID] = domain.UserRef{ID: row.ID, Email: row.Email, FullName: row.FullName}
	}
	return out, nil
}

func (r *Resolver) fetchPets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.PetRef, error) {
	var rows []petRefRow
	if err := r.selectByIDs(ctx, &rows, "pets", ids, "id", "owner", "name", "type", "breed", "size"); err != nil {
		return nil, fmt.Errorf("populate pets: %w", err)
	}

	out := make(map[uuid.UUID]domain.PetRef, len(rows))
	for _, row := range rows {
		out[row.ID] = domain.PetRef{
			ID:      row.ID,
			OwnerID: row.Owner,
			Name:    row.Name,
			Type:    domain.PetType(row.Type),
			Breed:   row.Breed,
			Size:    domain.PetSize(row.Size),
		}
	}
	return out, nil
}

func (r *Resolver) fetchBookings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.BookingRef, error) {
	var rows []bookingRefRow
	if err := r.selectByIDs(ctx, &rows, "bookings", ids, "id", "pet", "arrival", "departure", "status"); err != nil {
		return nil, fmt.Errorf("populate bookings: %w", err)
	}

	out := make(map[uuid.UUID]domain.BookingRef, len(rows))
	for _, row := range rows {
		out[row.ID] = domain.BookingRef{
			ID:        row.ID,
			PetID:     row.Pet,
			Arrival:   row.Arrival.UTC(),
			Departure: row.Departure.UTC(),
			Status:    domain.BookingStatus(row.Status),
		}
	}
	return out, nil
}

func (r *Resolver) selectByIDs(ctx context.Context, dst any, table string, ids []uuid.UUID, columns ...string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	stmt := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Expr("id = ANY(?::uuid[])", ids))
	return postgres.Select(ctx, q, dst, stmt)
}
