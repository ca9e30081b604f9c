package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditLog is an immutable record of one mutating repository call.
type AuditLog struct {
	ID         uuid.UUID
	EntityName EntityName
	EntityID   uuid.UUID
	Action     AuditAction
	Values     map[string]any
	CreatedBy  *uuid.UUID
	Timestamp  time.Time
}

// auditValues accumulates the submitted fields of an input in a
// JSON-friendly shape. Only fields that were actually submitted are set.
type auditValues map[string]any

func (v auditValues) str(key string, s *string) {
	if s != nil {
		v[key] = *s
	}
}

func (v auditValues) id(key string, id *uuid.UUID) {
	if id == nil {
		return
	}
	if *id == uuid.Nil {
		v[key] = nil
		return
	}
	v[key] = id.String()
}

func (v auditValues) ids(key string, ids []uuid.UUID) {
	if ids == nil {
		return
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	v[key] = out
}

func (v auditValues) time(key string, t *time.Time) {
	if t != nil {
		v[key] = t.UTC().Format(time.RFC3339Nano)
	}
}

func (v auditValues) decimal(key string, d *decimal.Decimal) {
	if d != nil {
		v[key] = d.String()
	}
}
