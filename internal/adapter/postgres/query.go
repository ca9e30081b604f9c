package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

// DefaultOrderBy is applied when a query carries no sort instruction.
const DefaultOrderBy = "createdAt_DESC"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Builder returns a statement builder with PostgreSQL ($n) placeholders.
func Builder() squirrel.StatementBuilderType {
	return psql
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

// Get runs the query and scans exactly one row into dst.
// No rows is reported as pgx.ErrNoRows.
func Get(ctx context.Context, q Querier, dst any, b squirrel.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Get(ctx, q, dst, sql, args...)
}

// Select runs the query and scans all rows into the slice pointed to by dst.
func Select(ctx context.Context, q Querier, dst any, b squirrel.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Select(ctx, q, dst, sql, args...)
}

// Exec runs a statement that returns no rows.
func Exec(ctx context.Context, q Querier, b squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build query: %w", err)
	}
	return q.Exec(ctx, sql, args...)
}

// Count returns the number of rows of table matching criteria.
func Count(ctx context.Context, q Querier, table string, criteria Criteria) (int, error) {
	var n int
	b := criteria.Apply(psql.Select("COUNT(*)").From(table))
	if err := Get(ctx, q, &n, b); err != nil {
		return 0, err
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Criteria
// ---------------------------------------------------------------------------

// Criteria is a list of predicates combined with AND. Nil predicates are
// skipped, so optional filter keys can be added unconditionally.
type Criteria []squirrel.Sqlizer

// Add appends every non-nil predicate.
func (c *Criteria) Add(preds ...squirrel.Sqlizer) {
	for _, p := range preds {
		if p != nil {
			*c = append(*c, p)
		}
	}
}

// Apply adds the criteria as a WHERE clause. Empty criteria match every row.
func (c Criteria) Apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if len(c) == 0 {
		return b
	}
	return b.Where(squirrel.And(c))
}

// Equal matches column = *v. A nil v yields no predicate.
func Equal[T any](column string, v *T) squirrel.Sqlizer {
	if v == nil {
		return nil
	}
	return squirrel.Eq{column: *v}
}

// In matches column against any of vs. An empty vs yields no predicate.
func In[T any](column string, vs []T) squirrel.Sqlizer {
	if len(vs) == 0 {
		return nil
	}
	return squirrel.Eq{column: vs}
}

// Between matches the inclusive range r. Each bound is applied only when set.
func Between[T any](column string, r domain.Range[T]) squirrel.Sqlizer {
	var and squirrel.And
	if r.Start != nil {
		and = append(and, squirrel.GtOrEq{column: *r.Start})
	}
	if r.End != nil {
		and = append(and, squirrel.LtOrEq{column: *r.End})
	}
	if len(and) == 0 {
		return nil
	}
	return and
}

// Contains matches a case-insensitive substring. LIKE wildcards in s are
// matched literally. Nil or blank s yields no predicate.
func Contains(column string, s *string) squirrel.Sqlizer {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return squirrel.ILike{column: "%" + EscapeLike(strings.TrimSpace(*s)) + "%"}
}

// HasElement matches rows whose array column contains v.
func HasElement[T any](column string, v *T) squirrel.Sqlizer {
	if v == nil {
		return nil
	}
	return squirrel.Expr("? = ANY("+column+")", *v)
}

// Autocomplete matches a typeahead search: id equality when search parses
// as an id, OR a case-insensitive substring of any label column. A blank
// search yields no predicate; a search no field can match yields FALSE.
func Autocomplete(search string, labelColumns ...string) squirrel.Sqlizer {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}

	var or squirrel.Or
	if id, err := uuid.Parse(search); err == nil {
		or = append(or, squirrel.Eq{"id": id})
	}
	for _, column := range labelColumns {
		or = append(or, Contains(column, &search))
	}
	if len(or) == 0 {
		return squirrel.Expr("FALSE")
	}
	return or
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters of s.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ---------------------------------------------------------------------------
// Sorting and pagination
// ---------------------------------------------------------------------------

// SortColumns maps the sortable field names of an entity to their columns.
type SortColumns map[string]string

// OrderBy parses a "field_DIRECTION" instruction into ORDER BY clauses. The
// value is split on the last underscore, so field names may contain
// underscores. Empty input falls back to DefaultOrderBy. Rows with equal sort
// keys are ordered by id in the same direction.
func (s SortColumns) OrderBy(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultOrderBy
	}

	i := strings.LastIndex(raw, "_")
	if i <= 0 || i == len(raw)-1 {
		return nil, domain.NewValidationError("orderBy", fmt.Sprintf("expected field_DIRECTION, got %q", raw))
	}

	field, dir := raw[:i], strings.ToUpper(raw[i+1:])
	column, ok := s[field]
	if !ok {
		return nil, domain.NewValidationError("orderBy", fmt.Sprintf("unknown sort field %q", field))
	}
	if dir != "ASC" && dir != "DESC" {
		return nil, domain.NewValidationError("orderBy", fmt.Sprintf("unknown sort direction %q", raw[i+1:]))
	}

	clauses := []string{column + " " + dir}
	if column != "id" {
		clauses = append(clauses, "id "+dir)
	}
	return clauses, nil
}

// Paginate applies limit and offset. A zero limit means no limit.
func Paginate(b squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}
