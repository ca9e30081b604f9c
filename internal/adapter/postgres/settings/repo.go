// Package settings implements the repository of the facility settings
// singleton using PostgreSQL.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
	"github.com/petboarding/petboarding-backend/pkg/ctxutil"
)

const (
	table  = "settings"
	entity = "settings"

	defaultTheme = "default"
)

// ID is the primary key of the settings row. There is never more than one.
var ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

var columns = []string{"id", "theme", "daily_fee", "capacity", "created_at", "updated_at", "created_by", "updated_by"}

type auditLogger interface {
	Log(ctx context.Context, entry domain.AuditLog) error
}

// Repo provides settings persistence backed by PostgreSQL.
type Repo struct {
	pool  *pgxpool.Pool
	audit auditLogger
}

// New creates a new settings repository.
func New(pool *pgxpool.Pool, audit auditLogger) *Repo {
	return &Repo{pool: pool, audit: audit}
}

type row struct {
	ID        uuid.UUID        `db:"id"`
	Theme     string           `db:"theme"`
	DailyFee  *decimal.Decimal `db:"daily_fee"`
	Capacity  *int             `db:"capacity"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
	CreatedBy *uuid.UUID       `db:"created_by"`
	UpdatedBy *uuid.UUID       `db:"updated_by"`
}

// FindOrCreateDefault returns the settings, creating them from defaults on
// first use. The creation is audited; the actor in ctx is optional because
// settings may be created at start-up.
func (r *Repo) FindOrCreateDefault(ctx context.Context, defaults domain.SettingsInput) (domain.Settings, error) {
	s, err := r.find(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Settings{}, err
	}

	if err := defaults.Validate(); err != nil {
		return domain.Settings{}, err
	}

	var actor *uuid.UUID
	if id, ok := ctxutil.ActorFromCtx(ctx); ok {
		actor = &id
	}

	stmt := postgres.Builder().
		Insert(table).
		Columns("id", "theme", "daily_fee", "capacity", "created_by", "updated_by").
		Values(ID, theme(defaults.Theme), defaults.DailyFee, defaults.Capacity, actor, actor).
		Suffix("ON CONFLICT (id) DO NOTHING")

	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.pool), stmt)
	if err != nil {
		return domain.Settings{}, postgres.MapError(err, entity, ID)
	}

	// A concurrent caller may have created the row first; only the winner audits.
	if tag.RowsAffected() == 1 {
		entry := domain.AuditLog{
			EntityName: domain.EntitySettings,
			EntityID:   ID,
			Action:     domain.AuditActionCreate,
			Values:     defaults.AuditValues(),
			CreatedBy:  actor,
		}
		if err := r.audit.Log(ctx, entry); err != nil {
			return domain.Settings{}, fmt.Errorf("create settings: %w", err)
		}
		metrics.RecordMutation(entity, string(domain.AuditActionCreate))
	}

	return r.find(ctx)
}

// Save applies the submitted fields of in to the settings and returns the
// result. Missing settings yield domain.ErrNotFound; FindOrCreateDefault
// creates them.
func (r *Repo) Save(ctx context.Context, in domain.SettingsInput) (domain.Settings, error) {
	if err := in.Validate(); err != nil {
		return domain.Settings{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	stmt := postgres.Builder().
		Update(table).
		Set("updated_by", actor).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ID})

	if in.Theme != nil {
		stmt = stmt.Set("theme", theme(in.Theme))
	}
	if in.DailyFee != nil {
		stmt = stmt.Set("daily_fee", *in.DailyFee)
	}
	if in.Capacity != nil {
		stmt = stmt.Set("capacity", *in.Capacity)
	}

	var updated uuid.UUID
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &updated, stmt.Suffix("RETURNING id")); err != nil {
		return domain.Settings{}, postgres.MapError(err, entity, ID)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntitySettings, ID, domain.AuditActionUpdate, in.AuditValues(), actor)); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionUpdate))
	return r.find(ctx)
}

func (r *Repo) find(ctx context.Context) (domain.Settings, error) {
	var out row
	stmt := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": ID})
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &out, stmt); err != nil {
		return domain.Settings{}, postgres.MapError(err, entity, ID)
	}
	return domain.Settings{
		ID:        out.ID,
		Theme:     out.Theme,
		DailyFee:  out.DailyFee,
		Capacity:  out.Capacity,
		CreatedAt: out.CreatedAt.UTC(),
		UpdatedAt: out.UpdatedAt.UTC(),
		CreatedBy: out.CreatedBy,
		UpdatedBy: out.UpdatedBy,
	}, nil
}

// theme falls back to the default theme when none is given.
func theme(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return defaultTheme
	}
	return strings.TrimSpace(*s)
}
