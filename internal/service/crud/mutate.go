package crud

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

// Create stores a new record on behalf of the actor in ctx.
func (s *Service[T, I, U, F]) Create(ctx context.Context, in I) (T, error) {
	var created T

	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return created, domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.repo.Create(txCtx, in)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", s.entity, createErr)
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	s.log.InfoContext(ctx, s.entity.String()+" created",
		slog.String("user_id", actor.String()),
	)

	return created, nil
}

// Update applies a partial update to the record with the given id.
func (s *Service[T, I, U, F]) Update(ctx context.Context, id uuid.UUID, in U) (T, error) {
	var updated T

	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return updated, domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.repo.Update(txCtx, id, in)
		if updateErr != nil {
			return fmt.Errorf("update %s: %w", s.entity, updateErr)
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	s.log.InfoContext(ctx, s.entity.String()+" updated",
		slog.String("user_id", actor.String()),
		slog.String("id", id.String()),
	)

	return updated, nil
}

// Destroy deletes every record in ids within one transaction. The first
// failure aborts the batch; with transactions disabled the records deleted
// before it stay deleted.
func (s *Service[T, I, U, F]) Destroy(ctx context.Context, ids ...uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			if err := s.repo.Destroy(txCtx, id); err != nil {
				return fmt.Errorf("destroy %s: %w", s.entity, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, s.entity.String()+" destroyed",
		slog.String("user_id", actor.String()),
		slog.Int("count", len(ids)),
	)

	return nil
}

// uniqueIDs drops duplicates and uuid.Nil, preserving order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
