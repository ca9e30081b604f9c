// Package auditlog implements read access to the audit log.
package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

// DefaultHistoryLimit bounds History when the caller passes no limit.
const DefaultHistoryLimit = 50

type auditRepo interface {
	FindAndCountAll(ctx context.Context, query domain.Query[domain.AuditLogFilter]) (domain.Page[domain.AuditLog], error)
	ListByEntity(ctx context.Context, entityName domain.EntityName, entityID uuid.UUID, limit int) ([]domain.AuditLog, error)
}

// Service provides audit log queries.
type Service struct {
	repo auditRepo
}

// NewService creates a new audit log service.
func NewService(repo auditRepo) *Service {
	return &Service{repo: repo}
}

// FindAndCountAll returns one page of audit entries and the total number of
// matches.
func (s *Service) FindAndCountAll(ctx context.Context, query domain.Query[domain.AuditLogFilter]) (domain.Page[domain.AuditLog], error) {
	for _, name := range query.Filter.EntityNames {
		if !name.IsValid() {
			return domain.Page[domain.AuditLog]{}, domain.NewValidationError("entityNames", "invalid value "+string(name))
		}
	}
	if query.Filter.Action != nil && !query.Filter.Action.IsValid() {
		return domain.Page[domain.AuditLog]{}, domain.NewValidationError("action", "invalid value")
	}

	query.Limit = max(query.Limit, 0)
	query.Offset = max(query.Offset, 0)
	return s.repo.FindAndCountAll(ctx, query)
}

// History returns the most recent changes of one record, newest first.
func (s *Service) History(ctx context.Context, entityName domain.EntityName, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	if !entityName.IsValid() {
		return nil, domain.NewValidationError("entityName", "invalid value "+string(entityName))
	}
	if entityID == uuid.Nil {
		return nil, domain.NewValidationError("entityId", "required")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	entries, err := s.repo.ListByEntity(ctx, entityName, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("history %s %s: %w", entityName, entityID, err)
	}
	return entries, nil
}
