package schema

import (
	"fmt"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
)

// Entity names a searchable record type.
type Entity string

// Entity constants.
const (
	Case Entity = "case"
	Bug  Entity = "bug"
)

// MineOnlyInput is the basic-form input name of the "my items" toggle.
const MineOnlyInput = "mine_only"

// TextInput binds a basic-form text box to a field.
type TextInput struct {
	Name  string
	Field field.ID
}

// BasicForm describes the inputs of an entity's basic search layout.
type BasicForm struct {
	TextInputs []TextInput
	// MineOnly is the set field filled with the current user when the toggle is on.
	MineOnly field.ID
}

// Schema lists the fields an entity can be filtered by.
// The tenant field is implicit and never part of ParamFields.
type Schema struct {
	entity Entity
	params []field.ID
	index  map[field.ID]struct{}
	basic  BasicForm
}

// New validates and creates a Schema.
func New(entity Entity, params []field.ID, basic BasicForm) (Schema, error) {
	if entity == "" {
		return Schema{}, fmt.Errorf("entity name is required")
	}
	index := make(map[field.ID]struct{}, len(params))
	for _, id := range params {
		if !id.IsValid() {
			return Schema{}, fmt.Errorf("entity %q: invalid field id %d", entity, int(id))
		}
		if id == field.Tenant {
			return Schema{}, fmt.Errorf("entity %q: tenant field is implicit", entity)
		}
		if _, dup := index[id]; dup {
			return Schema{}, fmt.Errorf("entity %q: duplicate field %q", entity, id)
		}
		index[id] = struct{}{}
	}
	for _, in := range basic.TextInputs {
		if in.Name == "" {
			return Schema{}, fmt.Errorf("entity %q: text input name is required", entity)
		}
		if _, ok := index[in.Field]; !ok {
			return Schema{}, fmt.Errorf("entity %q: text input %q targets unknown field %q", entity, in.Name, in.Field)
		}
	}
	if basic.MineOnly != field.Unknown {
		if _, ok := index[basic.MineOnly]; !ok {
			return Schema{}, fmt.Errorf("entity %q: mine-only targets unknown field %q", entity, basic.MineOnly)
		}
		if basic.MineOnly.FieldType() != field.Tag {
			return Schema{}, fmt.Errorf("entity %q: mine-only field %q must be a tag field", entity, basic.MineOnly)
		}
	}

	p := make([]field.ID, len(params))
	copy(p, params)
	in := make([]TextInput, len(basic.TextInputs))
	copy(in, basic.TextInputs)
	return Schema{
		entity: entity,
		params: p,
		index:  index,
		basic:  BasicForm{TextInputs: in, MineOnly: basic.MineOnly},
	}, nil
}

// MustNew calls New and panics on error.
func MustNew(entity Entity, params []field.ID, basic BasicForm) Schema {
	s, err := New(entity, params, basic)
	if err != nil {
		panic(err)
	}
	return s
}

// Entity returns the entity name.
func (s Schema) Entity() Entity { return s.entity }

// ParamFields returns the filterable fields in display order.
func (s Schema) ParamFields() []field.ID {
	out := make([]field.ID, len(s.params))
	copy(out, s.params)
	return out
}

// Has reports whether id is a filterable field of the entity.
func (s Schema) Has(id field.ID) bool {
	_, ok := s.index[id]
	return ok
}

// TextInput returns the basic-form text input with the given name.
func (s Schema) TextInput(name string) (TextInput, bool) {
	for _, in := range s.basic.TextInputs {
		if in.Name == name {
			return in, true
		}
	}
	return TextInput{}, false
}

// TextInputs returns the basic-form text inputs.
func (s Schema) TextInputs() []TextInput {
	out := make([]TextInput, len(s.basic.TextInputs))
	copy(out, s.basic.TextInputs)
	return out
}

// MineOnlyField returns the field bound to the mine-only toggle (field.Unknown if none).
func (s Schema) MineOnlyField() field.ID { return s.basic.MineOnly }

// Registry holds the schemas of all known entities.
type Registry struct {
	order   []Entity
	schemas map[Entity]Schema
}

// NewRegistry creates a registry; entity names must be unique.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[Entity]Schema, len(schemas))}
	for _, s := range schemas {
		if s.entity == "" {
			return nil, fmt.Errorf("schema without entity")
		}
		if _, dup := r.schemas[s.entity]; dup {
			return nil, fmt.Errorf("duplicate schema for entity %q", s.entity)
		}
		r.schemas[s.entity] = s
		r.order = append(r.order, s.entity)
	}
	return r, nil
}

// Lookup returns the schema for an entity.
func (r *Registry) Lookup(e Entity) (Schema, error) {
	s, ok := r.schemas[e]
	if !ok {
		return Schema{}, fmt.Errorf("entity %q: %w", e, domain.ErrNotFound)
	}
	return s, nil
}

// Entities returns registered entity names in registration order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, len(r.order))
	copy(out, r.order)
	return out
}
