// Package provider implements value providers: predicate values resolved
// when a saved query is selected rather than when it is defined.
package provider

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
)

// Tag identifies a provider type.
type Tag string

// Provider types.
const (
	Constant    Tag = "constant"
	Today       Tag = "today"
	ThisWeek    Tag = "this_week"
	LastWeek    Tag = "last_week"
	CurrentUser Tag = "current_user"
	// CurrentProject resolves to the session's current project id.
	CurrentProject Tag = "current_project"
)

// Env is the evaluation context of a provider.
type Env struct {
	Now       time.Time
	Username  string
	ProjectID int64
}

// Provider yields a predicate value at evaluation time.
type Provider interface {
	Evaluate(env Env) criteria.Value
	Type() Tag
}

// Value wraps a fixed literal.
func Value(v criteria.Value) Provider { return constant{v: v} }

// Strings is a constant set of strings.
func Strings(items ...string) Provider { return constant{v: criteria.Set(items...)} }

// String is a constant string.
func String(s string) Provider { return constant{v: criteria.String(s)} }

// For returns the dynamic provider with the given tag.
// Constant providers carry a literal and cannot be looked up by tag.
func For(tag Tag) (Provider, bool) {
	switch tag {
	case Today:
		return today{}, true
	case ThisWeek:
		return week{tag: ThisWeek}, true
	case LastWeek:
		return week{tag: LastWeek, offset: -1}, true
	case CurrentUser:
		return currentUser{}, true
	case CurrentProject:
		return currentProject{}, true
	}
	return nil, false
}

type constant struct{ v criteria.Value }

func (c constant) Evaluate(Env) criteria.Value { return c.v }
func (constant) Type() Tag                     { return Constant }

type today struct{}

func (today) Evaluate(env Env) criteria.Value { return criteria.Date(env.Now) }
func (today) Type() Tag                       { return Today }

// week resolves to Monday..Sunday of the week containing Now, shifted by offset weeks.
type week struct {
	tag    Tag
	offset int
}

func (w week) Evaluate(env Env) criteria.Value {
	if env.Now.IsZero() {
		return criteria.DateRange(time.Time{}, time.Time{})
	}
	y, m, d := env.Now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, env.Now.Location())
	sinceMonday := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -sinceMonday+7*w.offset)
	return criteria.DateRange(start, start.AddDate(0, 0, 6))
}

func (w week) Type() Tag { return w.tag }

type currentUser struct{}

func (currentUser) Evaluate(env Env) criteria.Value { return criteria.String(env.Username) }
func (currentUser) Type() Tag                       { return CurrentUser }

type currentProject struct{}

func (currentProject) Evaluate(env Env) criteria.Value {
	if env.ProjectID <= 0 {
		return criteria.Set()
	}
	return criteria.Set(strconv.FormatInt(env.ProjectID, 10))
}

func (currentProject) Type() Tag { return CurrentProject }
