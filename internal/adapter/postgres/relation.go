package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/metrics"
)

// Cardinality describes both ends of a two-way relation as seen from the
// owner: whether the owner's field and the target's inverse field hold a
// single reference or a list of references.
type Cardinality int

const (
	// OneToOne: singular field, singular inverse.
	OneToOne Cardinality = iota
	// OneToMany: singular field, list inverse.
	OneToMany
	// ManyToOne: list field, singular inverse.
	ManyToOne
	// ManyToMany: list field, list inverse.
	ManyToMany
)

func (c Cardinality) String() string {
	switch c {
	case OneToOne:
		return "one-to-one"
	case OneToMany:
		return "one-to-many"
	case ManyToOne:
		return "many-to-one"
	case ManyToMany:
		return "many-to-many"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}

// Relation is a two-way reference between Owner.Field and Target.Inverse.
// Singular fields are nullable uuid columns, list fields are uuid[] columns
// with set semantics. Table and column names come from code, never from input.
type Relation struct {
	Owner       string
	Field       string
	Target      string
	Inverse     string
	Cardinality Cardinality
}

// Name identifies the relation in logs and metrics, e.g. "bookings.pet".
func (r Relation) Name() string {
	return r.Owner + "." + r.Field
}

// Inverted returns the same relation seen from the target side.
func (r Relation) Inverted() Relation {
	inv := Relation{Owner: r.Target, Field: r.Inverse, Target: r.Owner, Inverse: r.Field, Cardinality: r.Cardinality}
	switch r.Cardinality {
	case OneToMany:
		inv.Cardinality = ManyToOne
	case ManyToOne:
		inv.Cardinality = OneToMany
	}
	return inv
}

func (r Relation) fieldIsList() bool {
	return r.Cardinality == ManyToOne || r.Cardinality == ManyToMany
}

func (r Relation) inverseIsList() bool {
	return r.Cardinality == OneToMany || r.Cardinality == ManyToMany
}

// Refresh makes every target's inverse field agree with the owner's current
// references: targets no longer referenced lose the back-reference, newly
// referenced targets gain it exactly once. When the inverse is singular a
// newly referenced target may still point at another owner; that owner's
// forward reference is dropped so no one-sided reference remains.
//
// Callers holding a list field run CheckTargets before writing the owner row.
func (r Relation) Refresh(ctx context.Context, q Querier, ownerID uuid.UUID, targets []uuid.UUID) error {
	targets = UniqueIDs(targets)

	if _, err := Exec(ctx, q, r.dropStale(ownerID, targets)); err != nil {
		return fmt.Errorf("relation %s: drop stale back-references: %w", r.Name(), err)
	}

	if len(targets) > 0 {
		if !r.inverseIsList() {
			for _, stmt := range r.stealFromPreviousOwners(ownerID, targets) {
				if _, err := Exec(ctx, q, stmt); err != nil {
					return fmt.Errorf("relation %s: release previous owners: %w", r.Name(), err)
				}
			}
		}
		if _, err := Exec(ctx, q, r.addMissing(ownerID, targets)); err != nil {
			return fmt.Errorf("relation %s: add back-references: %w", r.Name(), err)
		}
	}

	metrics.RecordRelationSync(r.Name(), "refresh")
	return nil
}

// Destroy removes ownerID from the inverse field of every target.
func (r Relation) Destroy(ctx context.Context, q Querier, ownerID uuid.UUID) error {
	stmt := psql.Update(r.Target).Set("updated_at", squirrel.Expr("now()"))
	if r.inverseIsList() {
		stmt = stmt.
			Set(r.Inverse, squirrel.Expr("array_remove("+r.Inverse+", ?::uuid)", ownerID)).
			Where(squirrel.Expr("?::uuid = ANY("+r.Inverse+")", ownerID))
	} else {
		stmt = stmt.
			Set(r.Inverse, nil).
			Where(squirrel.Eq{r.Inverse: ownerID})
	}

	if _, err := Exec(ctx, q, stmt); err != nil {
		return fmt.Errorf("relation %s: destroy back-references: %w", r.Name(), err)
	}

	metrics.RecordRelationSync(r.Name(), "destroy")
	return nil
}

// CheckTargets fails with domain.ErrNotFound when a listed target does not
// exist. Singular references are guarded by foreign keys, so it only queries
// for list fields.
func (r Relation) CheckTargets(ctx context.Context, q Querier, targets []uuid.UUID) error {
	targets = UniqueIDs(targets)
	if !r.fieldIsList() || len(targets) == 0 {
		return nil
	}

	var found []uuid.UUID
	stmt := psql.Select("id").From(r.Target).Where(squirrel.Expr("id = ANY(?::uuid[])", targets))
	if err := Select(ctx, q, &found, stmt); err != nil {
		return fmt.Errorf("relation %s: check targets: %w", r.Name(), err)
	}
	if len(found) == len(targets) {
		return nil
	}

	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range targets {
		if _, ok := present[id]; !ok {
			return fmt.Errorf("%s %s: %w", r.Target, id, domain.ErrNotFound)
		}
	}
	return nil
}

func (r Relation) dropStale(ownerID uuid.UUID, targets []uuid.UUID) squirrel.UpdateBuilder {
	stmt := psql.Update(r.Target).Set("updated_at", squirrel.Expr("now()"))
	if r.inverseIsList() {
		stmt = stmt.
			Set(r.Inverse, squirrel.Expr("array_remove("+r.Inverse+", ?::uuid)", ownerID)).
			Where(squirrel.Expr("?::uuid = ANY("+r.Inverse+")", ownerID))
	} else {
		stmt = stmt.
			Set(r.Inverse, nil).
			Where(squirrel.Eq{r.Inverse: ownerID})
	}
	return stmt.Where(squirrel.Expr("NOT (id = ANY(?::uuid[]))", targets))
}

func (r Relation) addMissing(ownerID uuid.UUID, targets []uuid.UUID) squirrel.UpdateBuilder {
	stmt := psql.Update(r.Target).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Expr("id = ANY(?::uuid[])", targets))
	if r.inverseIsList() {
		return stmt.
			Set(r.Inverse, squirrel.Expr("array_append("+r.Inverse+", ?::uuid)", ownerID)).
			Where(squirrel.Expr("NOT (?::uuid = ANY("+r.Inverse+"))", ownerID))
	}
	return stmt.
		Set(r.Inverse, ownerID).
		Where(squirrel.Expr(r.Inverse+" IS DISTINCT FROM ?::uuid", ownerID))
}

// stealFromPreviousOwners clears the forward reference of every other owner
// that currently holds one of targets.
func (r Relation) stealFromPreviousOwners(ownerID uuid.UUID, targets []uuid.UUID) []squirrel.Sqlizer {
	base := psql.Update(r.Owner).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.NotEq{"id": ownerID})

	if !r.fieldIsList() {
		return []squirrel.Sqlizer{
			base.Set(r.Field, nil).Where(squirrel.Expr(r.Field+" = ANY(?::uuid[])", targets)),
		}
	}

	stmts := make([]squirrel.Sqlizer, 0, len(targets))
	for _, t := range targets {
		stmts = append(stmts, base.
			Set(r.Field, squirrel.Expr("array_remove("+r.Field+", ?::uuid)", t)).
			Where(squirrel.Expr("?::uuid = ANY("+r.Field+")", t)))
	}
	return stmts
}

// UniqueIDs returns ids without duplicates and without uuid.Nil, preserving
// order. The result is never nil.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IDs collects the set, non-nil references into a slice.
func IDs(refs ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		if ref != nil && *ref != uuid.Nil {
			out = append(out, *ref)
		}
	}
	return out
}

// BookingPet links Booking.pet with Pet.bookings. The pet repository uses
// BookingPet.Inverted().
var BookingPet = Relation{
	Owner:       "bookings",
	Field:       "pet",
	Target:      "pets",
	Inverse:     "bookings",
	Cardinality: OneToMany,
}
