package crmfilter

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
)

// QueryBuilder is a fluent builder for ad-hoc advanced queries.
// The account scope always comes from the principal.
type QueryBuilder struct {
	svc   *SearchService
	preds []builder.Predicate
	err   error

	offset int
	limit  int
}

// Where adds a predicate that must match.
func (b *QueryBuilder) Where(field string, op Op, value any) *QueryBuilder {
	return b.add(criteria.And, field, op, value)
}

// Or adds a predicate to the disjunction group; at least one Or predicate must match.
func (b *QueryBuilder) Or(field string, op Op, value any) *QueryBuilder {
	return b.add(criteria.Or, field, op, value)
}

func (b *QueryBuilder) add(join criteria.Join, field string, op Op, value any) *QueryBuilder {
	if b.err != nil {
		return b
	}
	v, err := toValue(value)
	if err != nil {
		b.err = fmt.Errorf("%s %s: %w", field, op, err)
		return b
	}
	b.preds = append(b.preds, builder.Predicate{
		Join:  join,
		Field: field,
		Op:    criteria.Op(op),
		Value: v,
	})
	return b
}

// Offset sets the number of records to skip.
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.offset = n
	return b
}

// Limit sets the maximum number of records.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.limit = n
	return b
}

// Do executes the query. Unknown fields and operators that do not fit a
// field fail with an *InvalidTemplateError.
func (b *QueryBuilder) Do(ctx context.Context) (Result, error) {
	if b.err != nil {
		return Result{}, b.err
	}
	return b.svc.advanced(ctx, b.preds, Page{Offset: b.offset, Limit: b.limit})
}
