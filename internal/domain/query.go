package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Range is an inclusive [Start, End] interval where either bound may be
// absent. A nil bound means "no bound", never a literal zero value.
type Range[T any] struct {
	Start *T
	End   *T
}

// IsOpen reports whether neither bound is set.
func (r Range[T]) IsOpen() bool {
	return r.Start == nil && r.End == nil
}

// NewRange builds a Range from optional bounds.
func NewRange[T any](start, end *T) Range[T] {
	return Range[T]{Start: start, End: end}
}

// Query is the input of a FindAndCountAll call.
//
// Limit <= 0 means no limit and Offset <= 0 means no offset: pagination is
// opt-in. OrderBy has the form "field_ASC" or "field_DESC"; empty means
// "createdAt_DESC".
type Query[F any] struct {
	Filter  F
	Limit   int
	Offset  int
	OrderBy string
}

// Page is the result of a FindAndCountAll call. Count is the total number of
// matching records ignoring pagination.
type Page[T any] struct {
	Rows  []T
	Count int
}

// AutocompleteItem is a lightweight {id, label} pair for typeahead lists.
type AutocompleteItem struct {
	ID    uuid.UUID
	Label string
}

// timeLayouts are accepted by ParseTimeRange, most specific first.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTimeRange converts a raw [start, end] pair into a Range. Empty or
// whitespace-only strings produce an absent bound.
func ParseTimeRange(field string, pair [2]string) (Range[time.Time], error) {
	var r Range[time.Time]
	for i, raw := range pair {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, ok := parseTime(raw)
		if !ok {
			return Range[time.Time]{}, NewValidationError(field, "invalid date "+raw)
		}
		if i == 0 {
			r.Start = &t
		} else {
			r.End = &t
		}
	}
	return r, nil
}

func parseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseDecimalRange converts a raw [start, end] pair into a Range of decimals.
// Empty strings produce an absent bound.
func ParseDecimalRange(field string, pair [2]string) (Range[decimal.Decimal], error) {
	var r Range[decimal.Decimal]
	for i, raw := range pair {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Range[decimal.Decimal]{}, NewValidationError(field, "invalid number "+raw)
		}
		if i == 0 {
			r.Start = &d
		} else {
			r.End = &d
		}
	}
	return r, nil
}

// ParseID coerces a raw identifier. The empty string means "no filter" and
// yields nil.
func ParseID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, NewValidationError(field, "invalid id")
	}
	return &id, nil
}
