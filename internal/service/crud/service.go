// Package crud implements the service of the user, pet and booking records.
// Mutations run inside a transaction when the transaction manager has them
// enabled; reads run in the configured read scope.
package crud

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

type repository[T, I, U, F any] interface {
	Create(ctx context.Context, in I) (T, error)
	Update(ctx context.Context, id uuid.UUID, in U) (T, error)
	Destroy(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (T, error)
	FindAndCountAll(ctx context.Context, query domain.Query[F]) (domain.Page[T], error)
	FindAllAutocomplete(ctx context.Context, search string, limit int) ([]domain.AutocompleteItem, error)
	Count(ctx context.Context, filter F) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides the record operations of one entity. T is the record, I
// the create input, U the partial update and F the filter.
type Service[T, I, U, F any] struct {
	entity domain.EntityName
	repo   repository[T, I, U, F]
	tx     txManager
	log    *slog.Logger
	scope  func(ctx context.Context) context.Context
}

// Option configures a Service.
type Option func(*options)

type options struct {
	scope func(ctx context.Context) context.Context
}

// WithReadScope sets the function that prepares the context of every read.
// The repositories use it to share reference lookups across the records of
// one read.
func WithReadScope(scope func(ctx context.Context) context.Context) Option {
	return func(o *options) {
		o.scope = scope
	}
}

// NewService creates a Service for entity.
func NewService[T, I, U, F any](
	log *slog.Logger,
	entity domain.EntityName,
	repo repository[T, I, U, F],
	tx txManager,
	opts ...Option,
) *Service[T, I, U, F] {
	o := options{scope: func(ctx context.Context) context.Context { return ctx }}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service[T, I, U, F]{
		entity: entity,
		repo:   repo,
		tx:     tx,
		log:    log.With("service", entity.String()),
		scope:  o.scope,
	}
}

// Services of the application's entities.
type (
	BookingService = Service[domain.Booking, domain.BookingInput, domain.BookingUpdate, domain.BookingFilter]
	PetService     = Service[domain.Pet, domain.PetInput, domain.PetUpdate, domain.PetFilter]
	UserService    = Service[domain.User, domain.UserInput, domain.UserUpdate, domain.UserFilter]
)

// NewBookingService creates the booking service.
func NewBookingService(
	log *slog.Logger,
	repo repository[domain.Booking, domain.BookingInput, domain.BookingUpdate, domain.BookingFilter],
	tx txManager,
	opts ...Option,
) *BookingService {
	return NewService(log, domain.EntityBooking, repo, tx, opts...)
}

// NewPetService creates the pet service.
func NewPetService(
	log *slog.Logger,
	repo repository[domain.Pet, domain.PetInput, domain.PetUpdate, domain.PetFilter],
	tx txManager,
	opts ...Option,
) *PetService {
	return NewService(log, domain.EntityPet, repo, tx, opts...)
}

// NewUserService creates the user service.
func NewUserService(
	log *slog.Logger,
	repo repository[domain.User, domain.UserInput, domain.UserUpdate, domain.UserFilter],
	tx txManager,
	opts ...Option,
) *UserService {
	return NewService(log, domain.EntityUser, repo, tx, opts...)
}
