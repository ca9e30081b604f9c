// Package populate resolves reference ids of fetched records into summaries.
//
// Outside a scope every call queries the store directly. A context prepared
// with Resolver.Scope carries one set of loaders: references requested by
// any read in that scope are batched and cached until the context is
// dropped. Transactional contexts always bypass the loaders so that reads
// see the transaction's writes.
package populate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/domain"
)

const (
	// wait is the batch window of a scoped loader.
	wait = 2 * time.Millisecond
	// maxBatch bounds the id list of one query.
	maxBatch = 100
)

type fetchFunc[V any] func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]V, error)

// Resolver loads user, pet and booking summaries by id.
type Resolver struct {
	pool *pgxpool.Pool

	users    fetchFunc[domain.UserRef]
	pets     fetchFunc[domain.PetRef]
	bookings fetchFunc[domain.BookingRef]
}

// New creates a Resolver.
func New(pool *pgxpool.Pool) *Resolver {
	r := &Resolver{pool: pool}
	r.users = r.fetchUsers
	r.pets = r.fetchPets
	r.bookings = r.fetchBookings
	return r
}

// ---------------------------------------------------------------------------
// Scoped loaders
// ---------------------------------------------------------------------------

// Loaders holds the reference loaders of one read scope.
type Loaders struct {
	users    *dataloader.Loader[uuid.UUID, *domain.UserRef]
	pets     *dataloader.Loader[uuid.UUID, *domain.PetRef]
	bookings *dataloader.Loader[uuid.UUID, *domain.BookingRef]
}

// NewLoaders creates an empty loader set backed by r.
func (r *Resolver) NewLoaders() *Loaders {
	return &Loaders{
		users:    newLoader(newBatchFn(r.users)),
		pets:     newLoader(newBatchFn(r.pets)),
		bookings: newLoader(newBatchFn(r.bookings)),
	}
}

type loadersKey struct{}

// WithLoaders stores l in ctx.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

// LoadersFromCtx returns the loaders stored in ctx, if any.
func LoadersFromCtx(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(loadersKey{}).(*Loaders)
	return l, ok && l != nil
}

// Scope returns ctx with a fresh loader set, or ctx unchanged when it already
// carries one, so nested reads join the outer scope.
func (r *Resolver) Scope(ctx context.Context) context.Context {
	if _, ok := LoadersFromCtx(ctx); ok {
		return ctx
	}
	return WithLoaders(ctx, r.NewLoaders())
}

func scoped(ctx context.Context) (*Loaders, bool) {
	if postgres.InTx(ctx) {
		return nil, false
	}
	return LoadersFromCtx(ctx)
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, *V]) *dataloader.Loader[uuid.UUID, *V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, *V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, *V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Record population
// ---------------------------------------------------------------------------

// Bookings fills Owner and Pet of every booking. References to records that
// no longer exist stay nil.
func (r *Resolver) Bookings(ctx context.Context, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ownerIDs := make([]uuid.UUID, 0, len(bookings))
	petIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		ownerIDs = append(ownerIDs, postgres.IDs(b.OwnerID)...)
		petIDs = append(petIDs, postgres.IDs(b.PetID)...)
	}

	// Loads run one after another: a transaction connection serves one
	// query at a time.
	owners, err := r.Users(ctx, ownerIDs)
	if err != nil {
		return err
	}
	pets, err := r.PetRefs(ctx, petIDs)
	if err != nil {
		return err
	}

	for i := range bookings {
		b := &bookings[i]
		if b.OwnerID != nil {
			if u, ok := owners[*b.OwnerID]; ok {
				b.Owner = &u
			}
		}
		if b.PetID != nil {
			if p, ok := pets[*b.PetID]; ok {
				b.Pet = &p
			}
		}
	}
	return nil
}

// Pets fills Owner and Bookings of every pet. Bookings keep the order of
// BookingIDs.
func (r *Resolver) Pets(ctx context.Context, pets []domain.Pet) error {
	if len(pets) == 0 {
		return nil
	}

	ownerIDs := make([]uuid.UUID, 0, len(pets))
	var bookingIDs []uuid.UUID
	for _, p := range pets {
		ownerIDs = append(ownerIDs, postgres.IDs(p.OwnerID)...)
		bookingIDs = append(bookingIDs, p.BookingIDs...)
	}

	owners, err := r.Users(ctx, ownerIDs)
	if err != nil {
		return err
	}
	bookings, err := r.BookingRefs(ctx, bookingIDs)
	if err != nil {
		return err
	}

	for i := range pets {
		p := &pets[i]
		if p.OwnerID != nil {
			if u, ok := owners[*p.OwnerID]; ok {
				p.Owner = &u
			}
		}
		p.Bookings = make([]domain.BookingRef, 0, len(p.BookingIDs))
		for _, id := range p.BookingIDs {
			if b, ok := bookings[id]; ok {
				p.Bookings = append(p.Bookings, b)
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reference loads
// ---------------------------------------------------------------------------

// Users returns the summaries of the given users keyed by id.
func (r *Resolver) Users(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserRef, error) {
	if l, ok := scoped(ctx); ok {
		return load(ctx, ids, l.users)
	}
	return fetchUnique(ctx, ids, r.users)
}

// PetRefs returns the summaries of the given pets keyed by id.
func (r *Resolver) PetRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.PetRef, error) {
	if l, ok := scoped(ctx); ok {
		return load(ctx, ids, l.pets)
	}
	return fetchUnique(ctx, ids, r.pets)
}

// BookingRefs returns the summaries of the given bookings keyed by id.
func (r *Resolver) BookingRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.BookingRef, error) {
	if l, ok := scoped(ctx); ok {
		return load(ctx, ids, l.bookings)
	}
	return fetchUnique(ctx, ids, r.bookings)
}

func fetchUnique[V any](ctx context.Context, ids []uuid.UUID, fetch fetchFunc[V]) (map[uuid.UUID]V, error) {
	keys := postgres.UniqueIDs(ids)
	if len(keys) == 0 {
		return map[uuid.UUID]V{}, nil
	}
	return fetch(ctx, keys)
}

// load resolves ids through a scoped loader. Ids already cached by the scope
// are not fetched again.
func load[V any](ctx context.Context, ids []uuid.UUID, loader *dataloader.Loader[uuid.UUID, *V]) (map[uuid.UUID]V, error) {
	keys := postgres.UniqueIDs(ids)
	out := make(map[uuid.UUID]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, errs := loader.LoadMany(ctx, keys)()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for i, v := range values {
		if v != nil {
			out[keys[i]] = *v
		}
	}
	return out, nil
}

func newBatchFn[V any](fetch fetchFunc[V]) dataloader.BatchFunc[uuid.UUID, *V] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*V] {
		found, err := fetch(ctx, keys)
		if err != nil {
			return errorResults[*V](len(keys), err)
		}
		return mapResults(keys, found)
	}
}

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps found values back to key order; missing keys yield nil.
func mapResults[V any](keys []uuid.UUID, found map[uuid.UUID]V) []*dataloader.Result[*V] {
	results := make([]*dataloader.Result[*V], len(keys))
	for i, key := range keys {
		if v, ok := found[key]; ok {
			results[i] = &dataloader.Result[*V]{Data: &v}
		} else {
			results[i] = &dataloader.Result[*V]{}
		}
	}
	return results
}
