// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/petboarding/petboarding-backend/internal/adapter/postgres"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
)

const (
	table  = "users"
	entity = "user"
)

var columns = []string{
	"id", "email", "first_name", "last_name", "full_name", "phone_number", "password_hash",
	"roles", "status", "created_at", "updated_at", "created_by", "updated_by",
}

var sortColumns = postgres.SortColumns{
	"id":        "id",
	"email":     "email",
	"fullName":  "full_name",
	"firstName": "first_name",
	"lastName":  "last_name",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type auditLogger interface {
	Log(ctx context.Context, entry domain.AuditLog) error
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool     *pgxpool.Pool
	audit    auditLogger
	hashCost int
}

// Option configures a Repo.
type Option func(*Repo)

// WithHashCost sets the bcrypt cost of stored password hashes.
func WithHashCost(cost int) Option {
	return func(r *Repo) { r.hashCost = cost }
}

// New creates a new user repository.
func New(pool *pgxpool.Pool, audit auditLogger, opts ...Option) *Repo {
	r := &Repo{pool: pool, audit: audit, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type row struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	FullName     string     `db:"full_name"`
	PhoneNumber  *string    `db:"phone_number"`
	PasswordHash *string    `db:"password_hash"`
	Roles        []string   `db:"roles"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	CreatedBy    *uuid.UUID `db:"created_by"`
	UpdatedBy    *uuid.UUID `db:"updated_by"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a user on behalf of the actor carried by ctx.
// A taken e-mail returns domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, in domain.UserInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.User{}, err
	}
	return r.create(ctx, uuid.New(), actor, in)
}

// CreateFromAuth inserts a self-registered user. The new user is its own
// creator, so no actor is needed in ctx.
func (r *Repo) CreateFromAuth(ctx context.Context, in domain.UserInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	id := uuid.New()
	return r.create(ctx, id, id, in)
}

func (r *Repo) create(ctx context.Context, id, actor uuid.UUID, in domain.UserInput) (domain.User, error) {
	hash, err := r.hashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.UserStatusActive
	}

	stmt := postgres.Builder().
		Insert(table).
		Columns(
			"id", "email", "first_name", "last_name", "full_name", "phone_number", "password_hash",
			"roles", "status", "created_by", "updated_by",
		).
		Values(
			id, domain.NormalizeEmail(in.Email), trimmed(in.FirstName), trimmed(in.LastName),
			domain.BuildFullName(in.FirstName, in.LastName), trimmed(in.PhoneNumber), hash,
			rolesToStrings(in.Roles), string(status), actor, actor,
		)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.pool), stmt); err != nil {
		return domain.User{}, postgres.MapError(err, entity, id)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityUser, id, domain.AuditActionCreate, in.AuditValues(), actor)); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionCreate))
	return r.FindByID(ctx, id)
}

// Update applies the submitted fields of in. The full name is rebuilt when
// either name part is submitted.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, in domain.UserUpdate) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return domain.User{}, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Builder().
		Update(table).
		Set("updated_by", actor).
		Set("updated_at", squirrel.Expr("now()"))

	if in.Email != nil {
		stmt = stmt.Set("email", domain.NormalizeEmail(*in.Email))
	}
	if in.FirstName != nil || in.LastName != nil {
		current, err := r.get(ctx, id)
		if err != nil {
			return domain.User{}, err
		}
		first, last := current.FirstName, current.LastName
		if in.FirstName != nil {
			first = trimmed(in.FirstName)
			stmt = stmt.Set("first_name", first)
		}
		if in.LastName != nil {
			last = trimmed(in.LastName)
			stmt = stmt.Set("last_name", last)
		}
		stmt = stmt.Set("full_name", domain.BuildFullName(first, last))
	}
	if in.PhoneNumber != nil {
		stmt = stmt.Set("phone_number", trimmed(in.PhoneNumber))
	}
	if in.Password != nil {
		hash, err := r.hashPassword(in.Password)
		if err != nil {
			return domain.User{}, err
		}
		stmt = stmt.Set("password_hash", hash)
	}
	if in.Roles != nil {
		stmt = stmt.Set("roles", rolesToStrings(in.Roles))
	}
	if in.Status != nil {
		stmt = stmt.Set("status", string(*in.Status))
	}

	var updated uuid.UUID
	if err := postgres.Get(ctx, q, &updated, stmt.Where(squirrel.Eq{"id": id}).Suffix("RETURNING id")); err != nil {
		return domain.User{}, postgres.MapError(err, entity, id)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityUser, id, domain.AuditActionUpdate, in.AuditValues(), actor)); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionUpdate))
	return r.FindByID(ctx, id)
}

// Destroy deletes the user. Pets and bookings owned by the user keep their
// data and lose the owner reference.
func (r *Repo) Destroy(ctx context.Context, id uuid.UUID) error {
	actor, err := postgres.Actor(ctx)
	if err != nil {
		return err
	}

	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.pool), postgres.Builder().Delete(table).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	if err := r.audit.Log(ctx, postgres.AuditEntry(domain.EntityUser, id, domain.AuditActionDelete, nil, actor)); err != nil {
		return fmt.Errorf("destroy user: %w", err)
	}

	metrics.RecordMutation(entity, string(domain.AuditActionDelete))
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByID returns a user by primary key.
func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	defer metrics.ObserveQuery(entity, "find_by_id", time.Now())

	out, err := r.get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomain(out), nil
}

// FindByEmail returns a user by e-mail address, compared case-insensitively.
func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var out row
	stmt := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"email": domain.NormalizeEmail(email)})
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &out, stmt); err != nil {
		return domain.User{}, postgres.MapError(err, entity, uuid.Nil)
	}
	return toDomain(out), nil
}

// FindAndCountAll returns one page of users matching the filter and the total
// number of matches.
func (r *Repo) FindAndCountAll(ctx context.Context, query domain.Query[domain.UserFilter]) (domain.Page[domain.User], error) {
	defer metrics.ObserveQuery(entity, "find_and_count_all", time.Now())

	orderBy, err := sortColumns.OrderBy(query.OrderBy)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}

	criteria := filterCriteria(query.Filter)
	q := postgres.QuerierFromCtx(ctx, r.pool)

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select(columns...).From(table)).OrderBy(orderBy...),
		query.Limit, query.Offset,
	)

	var rows []row
	if err := postgres.Select(ctx, q, &rows, stmt); err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("find users: %w", err)
	}

	count, err := postgres.Count(ctx, q, table, criteria)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("count users: %w", err)
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = toDomain(row)
	}
	return domain.Page[domain.User]{Rows: users, Count: count}, nil
}

// Count returns the number of users matching the filter.
func (r *Repo) Count(ctx context.Context, filter domain.UserFilter) (int, error) {
	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, filterCriteria(filter))
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// FindAllAutocomplete returns {id, "Full Name <email>"} pairs ordered by id,
// matching the id or a substring of the full name or e-mail.
func (r *Repo) FindAllAutocomplete(ctx context.Context, search string, limit int) ([]domain.AutocompleteItem, error) {
	defer metrics.ObserveQuery(entity, "autocomplete", time.Now())

	var criteria postgres.Criteria
	criteria.Add(postgres.Autocomplete(search, "full_name", "email"))

	stmt := postgres.Paginate(
		criteria.Apply(postgres.Builder().Select("id", "email", "full_name").From(table)).OrderBy("id ASC"),
		limit, 0,
	)

	var rows []row
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, stmt); err != nil {
		return nil, fmt.Errorf("autocomplete users: %w", err)
	}

	items := make([]domain.AutocompleteItem, len(rows))
	for i, row := range rows {
		ref := domain.UserRef{ID: row.ID, Email: row.Email, FullName: row.FullName}
		items[i] = domain.AutocompleteItem{ID: row.ID, Label: ref.Label()}
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) get(ctx context.Context, id uuid.UUID) (row, error) {
	var out row
	stmt := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &out, stmt); err != nil {
		return row{}, postgres.MapError(err, entity, id)
	}
	return out, nil
}

// hashPassword returns nil for a user without a password.
func (r *Repo) hashPassword(password *string) (*string, error) {
	if password == nil {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), r.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	s := string(hash)
	return &s, nil
}

func filterCriteria(f domain.UserFilter) postgres.Criteria {
	var c postgres.Criteria
	c.Add(
		postgres.Equal("id", f.ID),
		postgres.Contains("email", f.Email),
		postgres.Contains("full_name", f.FullName),
		postgres.HasElement("roles", f.Role),
		postgres.Equal("status", f.Status),
		postgres.Between("created_at", f.CreatedAtRange),
	)
	return c
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// rolesToStrings never returns nil: roles is a NOT NULL array.
func rolesToStrings(roles []domain.UserRole) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}

func toDomain(row row) domain.User {
	roles := make([]domain.UserRole, len(row.Roles))
	for i, role := range row.Roles {
		roles[i] = domain.UserRole(role)
	}

	u := domain.User{
		ID:          row.ID,
		Email:       row.Email,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		FullName:    row.FullName,
		PhoneNumber: row.PhoneNumber,
		Roles:       roles,
		Status:      domain.UserStatus(row.Status),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
		CreatedBy:   row.CreatedBy,
		UpdatedBy:   row.UpdatedBy,
	}
	if row.PasswordHash != nil {
		u.PasswordHash = *row.PasswordHash
	}
	return u
}
