package crmfilter

import "time"

// Entity names a searchable record type.
type Entity string

// Built-in entities.
const (
	EntityCase Entity = "case"
	EntityBug  Entity = "bug"
)

// Op is a predicate comparator.
type Op string

// Comparators.
const (
	OpEq      Op = "eq"
	OpNotEq   Op = "neq"
	OpLike    Op = "like"
	OpIn      Op = "in"
	OpNotIn   Op = "not_in"
	OpBefore  Op = "before"
	OpAfter   Op = "after"
	OpBetween Op = "between"
)

// Mode is the active mode of a search panel.
type Mode string

// Panel modes.
const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
)

// Principal is the caller a search runs for.
type Principal struct {
	AccountID int64
	Username  string
	ProjectID int64 // 0 when no project is selected
}

// DateRange is an inclusive range of calendar days, the value of OpBetween.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Page selects a result window. Zero Limit uses the default page size.
type Page struct {
	Offset int
	Limit  int
}

// Record is a matching entity record.
type Record struct {
	ID     string
	Fields map[string]string
}

// Result is one page of matching records.
type Result struct {
	CriteriaID string
	Total      int
	Records    []Record
}

// SavedQueryInfo describes a saved query. Count is meaningful only when Counted.
type SavedQueryInfo struct {
	ID      string
	Name    string
	Label   string
	Count   int
	Counted bool
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}
