// Package auditlog implements the audit log repository using PostgreSQL.
// It provides append-only writes and filterable reads of audit entries.
package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
)

const table = "audit_logs"

var columns = []string{"id", "entity_name", "entity_id", "action", "changes", "created_by", "created_at"}

var sortColumns = postgres.SortColumns{
	"createdAt":  "created_at",
	"timestamp":  "created_at",
	"entityName": "entity_name",
	"action":     "action",
}

// sensitiveKeys are never persisted, whatever the caller submits.
var sensitiveKeys = []string{"password", "passwordHash", "password_hash"}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID         uuid.UUID  `db:"id"`
	EntityName string     `db:"entity_name"`
	EntityID   uuid.UUID  `db:"entity_id"`
	Action     string     `db:"action"`
	Changes    []byte     `db:"changes"`
	CreatedBy  *uuid.UUID `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends one audit entry through the querier carried by ctx and
// returns the persisted entry. A zero ID is replaced by a new one.
func (r *Repo) Create(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error) {
	if err := validate(entry); err != nil {
		return domain.AuditLog{}, err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	var changes []byte
	if entry.Values != nil {
		var err error
		changes, err = json.Marshal(redact(entry.Values))
		if err != nil {
			return domain.AuditLog{}, fmt.Errorf("audit_log marshal values: %w", err)
		}
	}

	stmt := postgres.Builder().
		Insert(table).
		Columns("id", "entity_name", "entity_id", "action", "changes", "created_by").
		Values(entry.ID, string(entry.EntityName), entry.EntityID, string(entry.Action), changes, entry.CreatedBy).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	var out row
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &out, stmt); err != nil {
		return domain.AuditLog{}, postgres.MapError(err, "audit_log", entry.ID)
	}

	metrics.RecordAuditEntry(string(entry.EntityName), string(entry.Action))
	return toDomain(out)
}

// Log appends an audit entry without returning it.
// Satisfies the auditLogger interface of every entity repository.
func (r *Repo) Log(ctx context.Context, entry domain.AuditLog) error {
	_, err := r.Create(ctx, entry)
	return err
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindAndCountAll returns one page of audit entries matching the filter and
// the total number of matches.
func (r *Repo) FindAndCountAll(ctx context.Context, query domain.Query[domain.AuditLogFilter]) (domain.Page[domain.AuditLog], error) {
	defer metrics.ObserveQuery("audit_log", "find_and_count_all", time.Now())

	orderBy, err := sortColumns.OrderBy(query.OrderBy)
	if err != nil {
		return domain.Page[domain.AuditLog]{}, err
	}

	criteria := filterCriteria(query.Filter)
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select(columns...).From(table)).OrderBy(orderBy...),
		query.Limit, query.Offset,
	)

	var rows []row
	if err := postgres.Select(ctx, q, &rows, stmt); err != nil {
		return domain.Page[domain.AuditLog]{}, fmt.Errorf("find audit_logs: %w", err)
	}

	count, err := postgres.Count(ctx, q, table, criteria)
	if err != nil {
		return domain.Page[domain.AuditLog]{}, fmt.Errorf("count audit_logs: %w", err)
	}

	entries, err := toDomainList(rows)
	if err != nil {
		return domain.Page[domain.AuditLog]{}, err
	}
	return domain.Page[domain.AuditLog]{Rows: entries, Count: count}, nil
}

// ListByEntity returns the change history of one entity, newest first.
// A zero limit returns the whole history.
func (r *Repo) ListByEntity(ctx context.Context, entityName domain.EntityName, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	stmt := postgres.Paginate(
		postgres.Builder().
			Select(columns...).
			From(table).
			Where(squirrel.Eq{"entity_name": string(entityName), "entity_id": entityID}).
			OrderBy("created_at DESC", "id DESC"),
		limit, 0,
	)

	var rows []row
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, stmt); err != nil {
		return nil, fmt.Errorf("list audit_logs by entity: %w", err)
	}
	return toDomainList(rows)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func filterCriteria(f domain.AuditLogFilter) postgres.Criteria {
	names := make([]string, len(f.EntityNames))
	for i, n := range f.EntityNames {
		names[i] = string(n)
	}

	var c postgres.Criteria
	c.Add(
		postgres.Equal("entity_id", f.EntityID),
		postgres.In("entity_name", names),
		postgres.Equal("action", f.Action),
		postgres.Equal("created_by", f.CreatedBy),
		postgres.Between("created_at", f.TimestampRange),
	)
	return c
}

func validate(entry domain.AuditLog) error {
	var errs []domain.FieldError
	if !entry.EntityName.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entityName", Message: "invalid value"})
	}
	if entry.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entityId", Message: "required"})
	}
	if !entry.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "invalid value"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// redact returns a copy of values without sensitive keys.
func redact(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, k := range sensitiveKeys {
		delete(out, k)
	}
	return out
}

func toDomain(row row) (domain.AuditLog, error) {
	entry := domain.AuditLog{
		ID:         row.ID,
		EntityName: domain.EntityName(row.EntityName),
		EntityID:   row.EntityID,
		Action:     domain.AuditAction(row.Action),
		CreatedBy:  row.CreatedBy,
		Timestamp:  row.CreatedAt.UTC(),
	}

	// changes: JSONB -> map[string]any
	if len(row.Changes) > 0 {
		values := make(map[string]any)
		if err := json.Unmarshal(row.Changes, &values); err != nil {
			return domain.AuditLog{}, fmt.Errorf("audit_log %s unmarshal values: %w", row.ID, err)
		}
		entry.Values = values
	}

	return entry, nil
}

func toDomainList(rows []row) ([]domain.AuditLog, error) {
	entries := make([]domain.AuditLog, len(rows))
	for i, r := range rows {
		entry, err := toDomain(r)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}
