package criteria

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the shape of a predicate value.
type Kind string

// Value kinds.
const (
	KindNumber    Kind = "number"
	KindString    Kind = "string"
	KindSet       Kind = "set"
	KindDate      Kind = "date"
	KindDateRange Kind = "date_range"
)

// Value is an immutable typed literal used by a predicate.
type Value struct {
	kind  Kind
	num   int64
	str   string
	items []string
	from  time.Time
	to    time.Time
}

// Number creates a numeric value.
func Number(n int64) Value { return Value{kind: KindNumber, num: n} }

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Set creates a set-membership value. Blank items are dropped, duplicates collapsed.
func Set(items ...string) Value {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return Value{kind: KindSet, items: out}
}

// Date creates a date value truncated to midnight in t's location.
func Date(t time.Time) Value {
	if t.IsZero() {
		return Value{kind: KindDate}
	}
	return Value{kind: KindDate, from: midnight(t)}
}

// DateRange creates an inclusive range of calendar days.
func DateRange(from, to time.Time) Value {
	if from.IsZero() || to.IsZero() {
		return Value{kind: KindDateRange}
	}
	return Value{kind: KindDateRange, from: midnight(from), to: midnight(to)}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric literal.
func (v Value) Num() int64 { return v.num }

// Str returns the string literal.
func (v Value) Str() string { return v.str }

// Items returns a copy of the set members.
func (v Value) Items() []string {
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Date returns the date literal (start of the day).
func (v Value) Date() time.Time { return v.from }

// Range returns the first and last day of a date range.
func (v Value) Range() (from, to time.Time) { return v.from, v.to }

// IsBlank reports whether the value carries nothing to filter on.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNumber:
		return false
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindSet:
		return len(v.items) == 0
	case KindDate:
		return v.from.IsZero()
	case KindDateRange:
		return v.from.IsZero() || v.to.IsZero()
	default:
		return true
	}
}

// Equal reports whether two values are identical.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.num != o.num || v.str != o.str || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return v.from.Equal(o.from) && v.to.Equal(o.to)
}

// String renders the value for logs and API responses.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatInt(v.num, 10)
	case KindString:
		return v.str
	case KindSet:
		return "{" + strings.Join(v.items, ",") + "}"
	case KindDate:
		return v.from.Format(time.DateOnly)
	case KindDateRange:
		return v.from.Format(time.DateOnly) + ".." + v.to.Format(time.DateOnly)
	default:
		return ""
	}
}
