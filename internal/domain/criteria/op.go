package criteria

import "github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"

// Op is a predicate comparator.
type Op string

// Comparators.
const (
	Eq      Op = "eq"
	NotEq   Op = "neq"
	Like    Op = "like"
	In      Op = "in"
	NotIn   Op = "not_in"
	Before  Op = "before"
	After   Op = "after"
	Between Op = "between"
)

// IsValid checks if the op is one of the supported values.
func (o Op) IsValid() bool {
	switch o {
	case Eq, NotEq, Like, In, NotIn, Before, After, Between:
		return true
	}
	return false
}

// IsSet reports whether the op takes a set operand.
func (o Op) IsSet() bool { return o == In || o == NotIn }

// IsNegated reports whether the op excludes matches.
func (o Op) IsNegated() bool { return o == NotEq || o == NotIn }

// Accepts reports whether op with a value of kind k is legal on fields of type ft.
func Accepts(ft field.Type, op Op, k Kind) bool {
	switch ft {
	case field.Numeric, field.Tag:
		scalar := KindNumber
		if ft == field.Tag {
			scalar = KindString
		}
		return (k == scalar && (op == Eq || op == NotEq)) || (k == KindSet && op.IsSet())
	case field.Text:
		return k == KindString && (op == Like || op == Eq)
	case field.Date:
		return (k == KindDate && (op == Before || op == After || op == Eq)) ||
			(k == KindDateRange && op == Between)
	}
	return false
}

// Join is the composition flag of a predicate.
type Join string

// Join constants.
const (
	And Join = "AND"
	Or  Join = "OR"
)

// IsValid checks if the join is AND or OR.
func (j Join) IsValid() bool { return j == And || j == Or }
