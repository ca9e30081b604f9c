// Package pet implements the Pet repository using PostgreSQL.
// Pet.bookings is the list side of the Booking.pet relation: writing it
// repoints the listed bookings and releases the ones no longer listed.
package pet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/adapter/postgres/populate"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
)

const (
	table  = "pets"
	entity = "pet"
)

var columns = []string{
	"id", "owner", "name", "type", "breed", "size", "bookings",
	"created_at", "updated_at", "created_by", "updated_by",
}

var sortColumns = postgres.SortColumns{
	"id":        "id",
	"name":      "name",
	"type":      "type",
	"breed":     "breed",
	"size":      "size",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// bookings is Pet.bookings seen from the pet side.
var bookings = postgres.BookingPet.Inverted()

type auditLogger interface {
	Log(ctx context.Context, entry domain.AuditLog) error
}

// Repo provides pet persistence backed by PostgreSQL.
type Repo struct {
	pool     *pgxpool.Pool
	audit    auditLogger
	resolver *populate.Resolver
}

// New creates a new pet repository.
func New(pool *pgxpool.Pool, audit auditLogger) *Repo {
	return &Repo{pool: pool, audit: audit, resolver: populate.New(pool)}
}

type row struct {
	ID        uuid.UUID   `db:"id"`
	Owner     *uuid.UUID  `db:"owner"`
	Name      string      `db:"name"`
	Type      string      `db:"type"`
	Breed     string      `db:"breed"`
	Size      string      `db:"size"`
	Bookings  []uuid.UUID `db:"bookings"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
	CreatedBy *uuid.UUID  `db:"created_by"`
	UpdatedBy *uuid.UUID  `db:"updated_by"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a pet, records the audit entry, points every listed booking
// at the new pet and returns the populated record.
func (r *Repo) Create(ctx context.Context, in domain.PetInput) (domain.Pet, error) {
	if err := in.Validate(); err != nil {
		return domain.Pet{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.Pet{}, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	id := uuid.New()
	bookingIDs := postgres.UniqueIDs(in.Bookings)
	if err := bookings.CheckTargets(ctx, q, bookingIDs); err != nil {
		return domain.Pet{}, fmt.Errorf("create pet: %w", err)
	}

	stmt := postgres.Builder().
		Insert(table).
		Columns("id", "owner", "name", "type", "breed", "size", "bookings", "created_by", "updated_by").
		Values(
			id, postgres.NullableRef(in.Owner), strings.TrimSpace(in.Name), string(in.Type),
			strings.TrimSpace(in.Breed), string(in.Size), bookingIDs, actor, actor,
		)

	if _, err := postgres.Exec(ctx, q, stmt); err != nil {
		return domain.Pet{}, postgres.MapError(err, entity, id)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityPet, id, domain.AuditActionCreate, in.AuditValues(), actor)); err != nil {
		return domain.Pet{}, fmt.Errorf("create pet: %w", err)
	}

	if err := bookings.Refresh(ctx, q, id, bookingIDs); err != nil {
		return domain.Pet{}, fmt.Errorf("create pet: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionCreate))
	return r.FindByID(ctx, id)
}

// Update applies the submitted fields of in. A non-nil Bookings replaces the
// list and re-syncs the bookings on both sides.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, in domain.PetUpdate) (domain.Pet, error) {
	if err := in.Validate(); err != nil {
		return domain.Pet{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.Pet{}, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Builder().
		Update(table).
		Set("updated_by", actor).
		Set("updated_at", squirrel.Expr("now()"))

	if in.Owner != nil {
		stmt = stmt.Set("owner", postgres.NullableRef(in.Owner))
	}
	if in.Name != nil {
		stmt = stmt.Set("name", strings.TrimSpace(*in.Name))
	}
	if in.Type != nil {
		stmt = stmt.Set("type", string(*in.Type))
	}
	if in.Breed != nil {
		stmt = stmt.Set("breed", strings.TrimSpace(*in.Breed))
	}
	if in.Size != nil {
		stmt = stmt.Set("size", string(*in.Size))
	}

	var bookingIDs []uuid.UUID
	if in.Bookings != nil {
		bookingIDs = postgres.UniqueIDs(in.Bookings)
		if err := bookings.CheckTargets(ctx, q, bookingIDs); err != nil {
			return domain.Pet{}, fmt.Errorf("update pet: %w", err)
		}
		stmt = stmt.Set("bookings", bookingIDs)
	}

	var updated uuid.UUID
	if err := postgres.Get(ctx, q, &updated, stmt.Where(squirrel.Eq{"id": id}).Suffix("RETURNING id")); err != nil {
		return domain.Pet{}, postgres.MapError(err, entity, id)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityPet, id, domain.AuditActionUpdate, in.AuditValues(), actor)); err != nil {
		return domain.Pet{}, fmt.Errorf("update pet: %w", err)
	}

	if in.Bookings != nil {
		if err := bookings.Refresh(ctx, q, id, bookingIDs); err != nil {
			return domain.Pet{}, fmt.Errorf("update pet: %w", err)
		}
	}

	metrics.RecordMutation(entity, string(domain.AuditActionUpdate))
	return r.FindByID(ctx, id)
}

// Destroy deletes the pet and clears Booking.pet of its bookings. A missing
// pet returns domain.ErrNotFound and writes no audit entry.
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

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityPet, id, domain.AuditActionDelete, nil, actor)); err != nil {
		return fmt.Errorf("destroy pet: %w", err)
	}

	if err := bookings.Destroy(ctx, q, id); err != nil {
		return fmt.Errorf("destroy pet: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionDelete))
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByID returns the pet with Owner and Bookings populated.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (domain.Pet, error) {
	defer metrics.ObserveQuery(entity, "find_by_id", time.Now())

	var out row
	stmt := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &out, stmt); err != nil {
		return domain.Pet{}, postgres.MapError(err, entity, id)
	}

	pets := []domain.Pet{toDomain(out)}
	if err := r.resolver.Pets(ctx, pets); err != nil {
		return domain.Pet{}, fmt.Errorf("populate pet %s: %w", id, err)
	}
	return pets[0], nil
}

// FindAndCountAll returns one page of populated pets matching the filter and
// the total number of matches.
func (r *Repo) FindAndCountAll(ctx context.Context, query domain.Query[domain.PetFilter]) (domain.Page[domain.Pet], error) {
	defer metrics.ObserveQuery(entity, "find_and_count_all", time.Now())

	orderBy, err := sortColumns.OrderBy(query.OrderBy)
	if err != nil {
		return domain.Page[domain.Pet]{}, err
	}

	criteria := filterCriteria(query.Filter)
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select(columns...).From(table)).OrderBy(orderBy...),
		query.Limit, query.Offset,
	)

	var rows []row
	if err := postgres.Select(ctx, q, &rows, stmt); err != nil {
		return domain.Page[domain.Pet]{}, fmt.Errorf("find pets: %w", err)
	}

	count, err := postgres.Count(ctx, q, table, criteria)
	if err != nil {
		return domain.Page[domain.Pet]{}, fmt.Errorf("count pets: %w", err)
	}

	pets := make([]domain.Pet, len(rows))
	for i, row := range rows {
		pets[i] = toDomain(row)
	}
	if err := r.resolver.Pets(ctx, pets); err != nil {
		return domain.Page[domain.Pet]{}, fmt.Errorf("populate pets: %w", err)
	}

	return domain.Page[domain.Pet]{Rows: pets, Count: count}, nil
}

// Count returns the number of pets matching the filter.
func (r *Repo) Count(ctx context.Context, filter domain.PetFilter) (int, error) {
	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, filterCriteria(filter))
	if err != nil {
		return 0, fmt.Errorf("count pets: %w", err)
	}
	return n, nil
}

// FindAllAutocomplete returns {id, name} pairs ordered by id, matching the
// id or a substring of the name. A zero limit returns every match.
func (r *Repo) FindAllAutocomplete(ctx context.Context, search string, limit int) ([]domain.AutocompleteItem, error) {
	defer metrics.ObserveQuery(entity, "autocomplete", time.Now())

	var criteria postgres.Criteria
	criteria.Add(postgres.Autocomplete(search, "name"))

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select("id", "name").From(table)).OrderBy("id ASC"),
		limit, 0,
	)

	var rows []row
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, stmt); err != nil {
		return nil, fmt.Errorf("autocomplete pets: %w", err)
	}

	items := make([]domain.AutocompleteItem, len(rows))
	for i, row := range rows {
		items[i] = domain.AutocompleteItem{ID: row.ID, Label: domain.PetRef{Name: row.Name}.Label()}
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func filterCriteria(f domain.PetFilter) postgres.Criteria {
	var c postgres.Criteria
	c.Add(
		postgres.Equal("id", f.ID),
		postgres.Equal("owner", f.Owner),
		postgres.Contains("name", f.Name),
		postgres.Equal("type", f.Type),
		postgres.Contains("breed", f.Breed),
		postgres.Equal("size", f.Size),
		postgres.Between("created_at", f.CreatedAtRange),
	)
	return c
}

func toDomain(row row) domain.Pet {
	ids := row.Bookings
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return domain.Pet{
		ID:         row.ID,
		OwnerID:    row.Owner,
		Name:       row.Name,
		Type:       domain.PetType(row.Type),
		Breed:      row.Breed,
		Size:       domain.PetSize(row.Size),
		BookingIDs: ids,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
		CreatedBy:  row.CreatedBy,
		UpdatedBy:  row.UpdatedBy,
	}
}
