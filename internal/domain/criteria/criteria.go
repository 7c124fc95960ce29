package criteria

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// Criteria construction errors.
var (
	ErrTenantOverride = errors.New("tenant predicate is injected from the session")
	ErrDuplicateField = errors.New("duplicate field")
	ErrUnknownField   = errors.New("field not in entity schema")
)

// Criteria is an immutable search criteria for one entity, always scoped to one tenant.
type Criteria struct {
	id     string
	entity schema.Entity
	tenant SearchField
	fields []SearchField
}

// New validates and creates a Criteria.
// Field order is preserved; the tenant predicate is added here and may not be passed in.
func New(s schema.Schema, tenantID int64, fields ...SearchField) (Criteria, error) {
	if tenantID <= 0 {
		return Criteria{}, fmt.Errorf("%w: tenant id %d", domain.ErrMissingTenant, tenantID)
	}
	seen := make(map[field.ID]struct{}, len(fields))
	for _, f := range fields {
		if f.field == field.Tenant {
			return Criteria{}, ErrTenantOverride
		}
		if !s.Has(f.field) {
			return Criteria{}, fmt.Errorf("%w: %q for entity %q", ErrUnknownField, f.field, s.Entity())
		}
		if _, dup := seen[f.field]; dup {
			return Criteria{}, fmt.Errorf("%w: %q", ErrDuplicateField, f.field)
		}
		seen[f.field] = struct{}{}
	}

	out := make([]SearchField, len(fields))
	copy(out, fields)
	return Criteria{
		id:     uuid.NewString(),
		entity: s.Entity(),
		tenant: SearchField{join: And, field: field.Tenant, op: Eq, value: Number(tenantID)},
		fields: out,
	}, nil
}

// ID returns the unique id of this criteria instance.
func (c Criteria) ID() string { return c.id }

// Entity returns the target entity.
func (c Criteria) Entity() schema.Entity { return c.entity }

// TenantID returns the tenant the criteria is scoped to.
func (c Criteria) TenantID() int64 { return c.tenant.value.num }

// Tenant returns the tenant-scoping predicate.
func (c Criteria) Tenant() SearchField { return c.tenant }

// Predicates returns the non-tenant predicates in insertion order.
func (c Criteria) Predicates() []SearchField {
	out := make([]SearchField, len(c.fields))
	copy(out, c.fields)
	return out
}

// Fields returns all predicates, tenant first.
func (c Criteria) Fields() []SearchField {
	out := make([]SearchField, 0, len(c.fields)+1)
	out = append(out, c.tenant)
	return append(out, c.fields...)
}

// Field returns the predicate on id, if any.
func (c Criteria) Field(id field.ID) (SearchField, bool) {
	if id == field.Tenant {
		return c.tenant, true
	}
	for _, f := range c.fields {
		if f.field == id {
			return f, true
		}
	}
	return SearchField{}, false
}

// Len returns the number of predicates including the tenant predicate.
func (c Criteria) Len() int { return len(c.fields) + 1 }
