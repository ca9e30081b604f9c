// Package booking implements the Booking repository using PostgreSQL.
// Every mutation writes one audit entry and keeps Pet.bookings in sync with
// Booking.pet.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/adapter/postgres/populate"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
)

const (
	table  = "bookings"
	entity = "booking"
)

var columns = []string{
	"id", "owner", "pet", "arrival", "departure",
	"client_notes", "employee_notes", "status", "cancellation_notes", "fee",
	"created_at", "updated_at", "created_by", "updated_by",
}

var sortColumns = postgres.SortColumns{
	"id":        "id",
	"arrival":   "arrival",
	"departure": "departure",
	"status":    "status",
	"fee":       "fee",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type auditLogger interface {
	Log(ctx context.Context, entry domain.AuditLog) error
}

// Repo provides booking persistence backed by PostgreSQL.
type Repo struct {
	pool     *pgxpool.Pool
	audit    auditLogger
	resolver *populate.Resolver
}

// New creates a new booking repository.
func New(pool *pgxpool.Pool, audit auditLogger) *Repo {
	return &Repo{pool: pool, audit: audit, resolver: populate.New(pool)}
}

type row struct {
	ID                uuid.UUID        `db:"id"`
	Owner             *uuid.UUID       `db:"owner"`
	Pet               *uuid.UUID       `db:"pet"`
	Arrival           time.Time        `db:"arrival"`
	Departure         time.Time        `db:"departure"`
	ClientNotes       *string          `db:"client_notes"`
	EmployeeNotes     *string          `db:"employee_notes"`
	Status            string           `db:"status"`
	CancellationNotes *string          `db:"cancellation_notes"`
	Fee               *decimal.Decimal `db:"fee"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
	CreatedBy         *uuid.UUID       `db:"created_by"`
	UpdatedBy         *uuid.UUID       `db:"updated_by"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a booking, records the audit entry, adds the booking to its
// pet and returns the populated record.
func (r *Repo) Create(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
	if err := in.Validate(); err != nil {
		return domain.Booking{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.Booking{}, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	id := uuid.New()

	stmt := postgres.Builder().
		Insert(table).
		Columns(
			"id", "owner", "pet", "arrival", "departure",
			"client_notes", "employee_notes", "status", "cancellation_notes", "fee",
			"created_by", "updated_by",
		).
		Values(
			id, postgres.NullableRef(in.Owner), postgres.NullableRef(in.Pet), in.Arrival.UTC(), in.Departure.UTC(),
			trimmed(in.ClientNotes), trimmed(in.EmployeeNotes), string(in.Status), trimmed(in.CancellationNotes), in.Fee,
			actor, actor,
		)

	if _, err := postgres.Exec(ctx, q, stmt); err != nil {
		return domain.Booking{}, postgres.MapError(err, entity, id)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityBooking, id, domain.AuditActionCreate, in.AuditValues(), actor)); err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	if err := postgres.BookingPet.Refresh(ctx, q, id, postgres.IDs(in.Pet)); err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionCreate))
	return r.FindByID(ctx, id)
}

// Update applies the submitted fields of in. The pet relation is re-synced
// only when Pet is submitted.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, in domain.BookingUpdate) (domain.Booking, error) {
	if err := in.Validate(); err != nil {
		return domain.Booking{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.Booking{}, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Builder().
		Update(table).
		Set("updated_by", actor).
		Set("updated_at", squirrel.Expr("now()"))

	if in.Owner != nil {
		stmt = stmt.Set("owner", postgres.NullableRef(in.Owner))
	}
	if in.Pet != nil {
		stmt = stmt.Set("pet", postgres.NullableRef(in.Pet))
	}
	if in.Arrival != nil {
		stmt = stmt.Set("arrival", in.Arrival.UTC())
	}
	if in.Departure != nil {
		stmt = stmt.Set("departure", in.Departure.UTC())
	}
	if in.ClientNotes != nil {
		stmt = stmt.Set("client_notes", trimmed(in.ClientNotes))
	}
	if in.EmployeeNotes != nil {
		stmt = stmt.Set("employee_notes", trimmed(in.EmployeeNotes))
	}
	if in.Status != nil {
		stmt = stmt.Set("status", string(*in.Status))
	}
	if in.CancellationNotes != nil {
		stmt = stmt.Set("cancellation_notes", trimmed(in.CancellationNotes))
	}
	if in.Fee != nil {
		stmt = stmt.Set("fee", *in.Fee)
	}

	var updated uuid.UUID
	if err := postgres.Get(ctx, q, &updated, stmt.Where(squirrel.Eq{"id": id}).Suffix("RETURNING id")); err != nil {
		return domain.Booking{}, postgres.MapError(err, entity, id)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityBooking, id, domain.AuditActionUpdate, in.AuditValues(), actor)); err != nil {
		return domain.Booking{}, fmt.Errorf("update booking: %w", err)
	}

	if in.Pet != nil {
		if err := postgres.BookingPet.Refresh(ctx, q, id, postgres.IDs(in.Pet)); err != nil {
			return domain.Booking{}, fmt.Errorf("update booking: %w", err)
		}
	}

	metrics.RecordMutation(entity, string(domain.AuditActionUpdate))
	return r.FindByID(ctx, id)
}

// Destroy deletes the booking and removes it from its pet. A missing booking
// returns domain.ErrNotFound and writes no audit entry.
func (r *Repo) Destroy(ctx context.Context, id uuid.UUID) error {
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := postgres.Exec(ctx, q, postgres.Builder().Delete(table).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityBooking, id, domain.AuditActionDelete, nil, actor)); err != nil {
		return fmt.Errorf("destroy booking: %w", err)
	}

	if err := postgres.BookingPet.Destroy(ctx, q, id); err != nil {
		return fmt.Errorf("destroy booking: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionDelete))
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByID returns the booking with Owner and Pet populated.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	defer metrics.ObserveQuery(entity, "find_by_id", time.Now())

	var out row
	stmt := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &out, stmt); err != nil {
		return domain.Booking{}, postgres.MapError(err, entity, id)
	}

	bookings := []domain.Booking{toDomain(out)}
	if err := r.resolver.Bookings(ctx, bookings); err != nil {
		return domain.Booking{}, fmt.Errorf("populate booking %s: %w", id, err)
	}
	return bookings[0], nil
}

// FindAndCountAll returns one page of populated bookings matching the filter
// and the total number of matches.
func (r *Repo) FindAndCountAll(ctx context.Context, query domain.Query[domain.BookingFilter]) (domain.Page[domain.Booking], error) {
	defer metrics.ObserveQuery(entity, "find_and_count_all", time.Now())

	orderBy, err := sortColumns.OrderBy(query.OrderBy)
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}

	criteria := filterCriteria(query.Filter)
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select(columns...).From(table)).OrderBy(orderBy...),
		query.Limit, query.Offset,
	)

	var rows []row
	if err := postgres.Select(ctx, q, &rows, stmt); err != nil {
		return domain.Page[domain.Booking]{}, fmt.Errorf("find bookings: %w", err)
	}

	count, err := postgres.Count(ctx, q, table, criteria)
	if err != nil {
		return domain.Page[domain.Booking]{}, fmt.Errorf("count bookings: %w", err)
	}

	bookings := make([]domain.Booking, len(rows))
	for i, row := range rows {
		bookings[i] = toDomain(row)
	}
	if err := r.resolver.Bookings(ctx, bookings); err != nil {
		return domain.Page[domain.Booking]{}, fmt.Errorf("populate bookings: %w", err)
	}

	return domain.Page[domain.Booking]{Rows: bookings, Count: count}, nil
}

// Count returns the number of bookings matching the filter.
func (r *Repo) Count(ctx context.Context, filter domain.BookingFilter) (int, error) {
	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, filterCriteria(filter))
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// FindAllAutocomplete returns {id, label} pairs ordered by id. Bookings are
// searched by id only. A zero limit returns every match.
func (r *Repo) FindAllAutocomplete(ctx context.Context, search string, limit int) ([]domain.AutocompleteItem, error) {
	defer metrics.ObserveQuery(entity, "autocomplete", time.Now())

	var criteria postgres.Criteria
	criteria.Add(postgres.Autocomplete(search))

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select("id", "pet", "arrival", "departure", "status").From(table)).OrderBy("id ASC"),
		limit, 0,
	)

	var rows []row
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, stmt); err != nil {
		return nil, fmt.Errorf("autocomplete bookings: %w", err)
	}

	items := make([]domain.AutocompleteItem, len(rows))
	for i, row := range rows {
		ref := domain.BookingRef{ID: row.ID, PetID: row.Pet, Arrival: row.Arrival.UTC(), Departure: row.Departure.UTC(), Status: domain.BookingStatus(row.Status)}
		items[i] = domain.AutocompleteItem{ID: row.ID, Label: ref.Label()}
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func filterCriteria(f domain.BookingFilter) postgres.Criteria {
	var c postgres.Criteria
	c.Add(
		postgres.Equal("id", f.ID),
		postgres.Equal("owner", f.Owner),
		postgres.Equal("pet", f.Pet),
		postgres.Between("arrival", f.ArrivalRange),
		postgres.Between("departure", f.DepartureRange),
		postgres.Equal("status", f.Status),
		postgres.Between("fee", f.FeeRange),
		postgres.Between("created_at", f.CreatedAtRange),
	)
	return c
}

// trimmed returns s without surrounding whitespace; blank notes are stored
// as NULL.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toDomain(row row) domain.Booking {
	return domain.Booking{
		ID:                row.ID,
		OwnerID:           row.Owner,
		PetID:             row.Pet,
		Arrival:           row.Arrival.UTC(),
		Departure:         row.Departure.UTC(),
		ClientNotes:       row.ClientNotes,
		EmployeeNotes:     row.EmployeeNotes,
		Status:            domain.BookingStatus(row.Status),
		CancellationNotes: row.CancellationNotes,
		Fee:               row.Fee,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
		CreatedBy:         row.CreatedBy,
		UpdatedBy:         row.UpdatedBy,
	}
}
