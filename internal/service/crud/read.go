package crud

import (
	"context"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

// FindByID returns the populated record.
func (s *Service[T, I, U, F]) FindByID(ctx context.Context, id uuid.UUID) (T, error) {
	return s.repo.FindByID(s.scope(ctx), id)
}

// FindAndCountAll returns one page of records and the total number of
// matches. Negative limits and offsets are treated as absent.
func (s *Service[T, I, U, F]) FindAndCountAll(ctx context.Context, query domain.Query[F]) (domain.Page[T], error) {
	query.Limit = max(query.Limit, 0)
	query.Offset = max(query.Offset, 0)
	return s.repo.FindAndCountAll(s.scope(ctx), query)
}

// FindAllAutocomplete returns {id, label} pairs matching search.
func (s *Service[T, I, U, F]) FindAllAutocomplete(ctx context.Context, search string, limit int) ([]domain.AutocompleteItem, error) {
	return s.repo.FindAllAutocomplete(ctx, search, max(limit, 0))
}

// Count returns the number of records matching filter.
func (s *Service[T, I, U, F]) Count(ctx context.Context, filter F) (int, error) {
	return s.repo.Count(ctx, filter)
}
