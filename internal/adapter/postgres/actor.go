package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

// Actor returns the acting user carried by ctx. Mutations without an actor
// fail with domain.ErrUnauthorized.
func Actor(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// NullableRef converts a submitted reference into a column value: nil and
// uuid.Nil both store NULL.
func NullableRef(ref *uuid.UUID) *uuid.UUID {
	if ref == nil || *ref == uuid.Nil {
		return nil
	}
	return ref
}

// AuditEntry builds the audit entry of one mutation performed by actor.
func AuditEntry(entity domain.EntityName, id uuid.UUID, action domain.AuditAction, values map[string]any, actor uuid.UUID) domain.AuditLog {
	return domain.AuditLog{
		EntityName: entity,
		EntityID:   id,
		Action:     action,
		Values:     values,
		CreatedBy:  &actor,
	}
}
