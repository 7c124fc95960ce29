package criteria

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
)

// Predicate construction errors.
var (
	ErrBlankValue    = errors.New("blank predicate value")
	ErrInvalidField  = errors.New("invalid field")
	ErrOpMismatch    = errors.New("operator not applicable")
	ErrInvalidJoin   = errors.New("invalid join")
	ErrNonNumericSet = errors.New("non-numeric set item")
	ErrReversedRange = errors.New("date range starts after it ends")
)

// SearchField is a single typed predicate over one attribute.
type SearchField struct {
	join  Join
	field field.ID
	op    Op
	value Value
}

// NewSearchField validates and creates a predicate. An empty join defaults to AND.
// Blank values are rejected: an unset field is omitted, never sent as a no-op predicate.
func NewSearchField(join Join, id field.ID, op Op, v Value) (SearchField, error) {
	if join == "" {
		join = And
	}
	if !join.IsValid() {
		return SearchField{}, fmt.Errorf("%w: %q", ErrInvalidJoin, join)
	}
	if !id.IsValid() {
		return SearchField{}, fmt.Errorf("%w: %d", ErrInvalidField, int(id))
	}
	if !Accepts(id.FieldType(), op, v.Kind()) {
		return SearchField{}, fmt.Errorf("%w: %s %s on %s field %q",
			ErrOpMismatch, op, v.Kind(), id.FieldType(), id)
	}
	if v.IsBlank() {
		return SearchField{}, fmt.Errorf("%w for field %q", ErrBlankValue, id)
	}
	if v.Kind() == KindDateRange {
		if from, to := v.Range(); from.After(to) {
			return SearchField{}, fmt.Errorf("%w for field %q: %s", ErrReversedRange, id, v)
		}
	}
	if id.FieldType() == field.Numeric && v.Kind() == KindSet {
		for _, it := range v.items {
			if _, err := strconv.ParseInt(it, 10, 64); err != nil {
				return SearchField{}, fmt.Errorf("%w %q for field %q", ErrNonNumericSet, it, id)
			}
		}
	}
	return SearchField{join: join, field: id, op: op, value: v}, nil
}

// Join returns the composition flag.
func (f SearchField) Join() Join { return f.join }

// Field returns the field identifier.
func (f SearchField) Field() field.ID { return f.field }

// Op returns the comparator.
func (f SearchField) Op() Op { return f.op }

// Value returns the literal.
func (f SearchField) Value() Value { return f.value }

// Kind returns the predicate kind (the value's kind).
func (f SearchField) Kind() Kind { return f.value.kind }

// Equal reports whether two predicates are identical.
func (f SearchField) Equal(o SearchField) bool {
	return f.join == o.join && f.field == o.field && f.op == o.op && f.value.Equal(o.value)
}

func (f SearchField) String() string {
	return fmt.Sprintf("%s %s %s %s", f.join, f.field, f.op, f.value)
}
