package savedquery

import (
	"fmt"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/provider"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// Template is a predicate whose value is resolved when the query is selected.
type Template struct {
	Join     criteria.Join
	Field    field.ID
	Op       criteria.Op
	Provider provider.Provider
}

// Where creates a template.
func Where(join criteria.Join, id field.ID, op criteria.Op, p provider.Provider) Template {
	return Template{Join: join, Field: id, Op: op, Provider: p}
}

// In creates an AND set-membership template.
func In(id field.ID, p provider.Provider) Template {
	return Where(criteria.And, id, criteria.In, p)
}

// InRange creates an AND date-range template.
func InRange(id field.ID, p provider.Provider) Template {
	return Where(criteria.And, id, criteria.Between, p)
}

// SavedQuery is a named, reusable criteria template for one entity.
type SavedQuery struct {
	id        string
	name      string
	entity    schema.Entity
	templates []Template
}

// New validates and creates a SavedQuery. Templates are checked against the
// entity schema only when the query is resolved.
func New(id, name string, entity schema.Entity, templates ...Template) (SavedQuery, error) {
	if id == "" {
		return SavedQuery{}, fmt.Errorf("saved query id is required")
	}
	if entity == "" {
		return SavedQuery{}, fmt.Errorf("saved query %q: entity is required", id)
	}
	if name == "" {
		name = id
	}
	for i, t := range templates {
		if t.Provider == nil {
			return SavedQuery{}, fmt.Errorf("saved query %q: template %d has no value provider", id, i)
		}
		if !t.Op.IsValid() {
			return SavedQuery{}, fmt.Errorf("saved query %q: template %d has invalid op %q", id, i, t.Op)
		}
	}
	ts := make([]Template, len(templates))
	copy(ts, templates)
	return SavedQuery{id: id, name: name, entity: entity, templates: ts}, nil
}

// MustNew calls New and panics on error.
func MustNew(id, name string, entity schema.Entity, templates ...Template) SavedQuery {
	q, err := New(id, name, entity, templates...)
	if err != nil {
		panic(err)
	}
	return q
}

// ID returns the query identifier.
func (q SavedQuery) ID() string { return q.id }

// Name returns the display name.
func (q SavedQuery) Name() string { return q.name }

// Entity returns the target entity.
func (q SavedQuery) Entity() schema.Entity { return q.entity }

// Templates returns a copy of the predicate templates.
func (q SavedQuery) Templates() []Template {
	out := make([]Template, len(q.templates))
	copy(out, q.templates)
	return out
}

// Label renders the display name with a result count, e.g. "Overdue Bugs (3)".
func (q SavedQuery) Label(count int) string {
	return fmt.Sprintf("%s (%d)", q.name, count)
}

type catalogKey struct {
	entity schema.Entity
	id     string
}

// Catalog holds saved queries per entity in registration order.
type Catalog struct {
	order   map[schema.Entity][]string
	queries map[catalogKey]SavedQuery
}

// NewCatalog creates a catalog from the given queries.
func NewCatalog(queries ...SavedQuery) (*Catalog, error) {
	c := &Catalog{
		order:   make(map[schema.Entity][]string),
		queries: make(map[catalogKey]SavedQuery),
	}
	for _, q := range queries {
		if err := c.Add(q); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers a query; ids are unique per entity.
func (c *Catalog) Add(q SavedQuery) error {
	if q.id == "" {
		return fmt.Errorf("saved query without id")
	}
	k := catalogKey{entity: q.entity, id: q.id}
	if _, dup := c.queries[k]; dup {
		return fmt.Errorf("duplicate saved query %q for entity %q", q.id, q.entity)
	}
	c.queries[k] = q
	c.order[q.entity] = append(c.order[q.entity], q.id)
	return nil
}

// Lookup returns a saved query by entity and id.
func (c *Catalog) Lookup(entity schema.Entity, id string) (SavedQuery, error) {
	q, ok := c.queries[catalogKey{entity: entity, id: id}]
	if !ok {
		return SavedQuery{}, fmt.Errorf("saved query %q for entity %q: %w", id, entity, domain.ErrNotFound)
	}
	return q, nil
}

// List returns the saved queries of an entity in registration order.
func (c *Catalog) List(entity schema.Entity) []SavedQuery {
	ids := c.order[entity]
	out := make([]SavedQuery, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.queries[catalogKey{entity: entity, id: id}])
	}
	return out
}
