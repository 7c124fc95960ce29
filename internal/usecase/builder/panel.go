package builder

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/mode"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
)

// Panel holds the composing state of one search panel for one entity.
// Exactly one mode is active. Switching modes discards the state composed in
// the other mode; nothing is emitted until Search is called.
// A Panel belongs to a single user view and is not safe for concurrent use.
type Panel struct {
	builder  *Builder
	schema   schema.Schema
	listener Listener

	mode     mode.Mode
	inputs   Inputs
	selected *savedquery.SavedQuery
}

// NewPanel creates a panel in basic mode. A nil listener is allowed.
func NewPanel(b *Builder, s schema.Schema, l Listener) *Panel {
	return &Panel{
		builder:  b,
		schema:   s,
		listener: l,
		mode:     mode.Basic,
		inputs:   Inputs{},
	}
}

// Mode returns the active mode.
func (p *Panel) Mode() mode.Mode { return p.mode }

// SwitchMode activates m. Switching to the active mode is a no-op.
func (p *Panel) SwitchMode(m mode.Mode) error {
	if !m.IsValid() {
		return fmt.Errorf("unknown search mode %q", m)
	}
	if m == p.mode {
		return nil
	}
	p.reset()
	p.mode = m
	return nil
}

// SetInput stores a basic-form text input.
func (p *Panel) SetInput(name, value string) error {
	if p.mode != mode.Basic {
		return fmt.Errorf("set input %q: %w", name, domain.ErrWrongMode)
	}
	p.inputs[name] = value
	return nil
}

// SetMineOnly toggles the "my items" checkbox.
func (p *Panel) SetMineOnly(on bool) error {
	if p.mode != mode.Basic {
		return fmt.Errorf("set mine only: %w", domain.ErrWrongMode)
	}
	if on {
		p.inputs[schema.MineOnlyInput] = strconv.FormatBool(true)
	} else {
		delete(p.inputs, schema.MineOnlyInput)
	}
	return nil
}

// Inputs returns a copy of the basic-form inputs.
func (p *Panel) Inputs() Inputs {
	out := make(Inputs, len(p.inputs))
	for k, v := range p.inputs {
		out[k] = v
	}
	return out
}

// Select picks a saved query. It activates advanced mode and drops basic inputs.
func (p *Panel) Select(q savedquery.SavedQuery) error {
	if q.Entity() != p.schema.Entity() {
		return fmt.Errorf("select %q: query belongs to %q, panel to %q: %w",
			q.ID(), q.Entity(), p.schema.Entity(), domain.ErrNotFound)
	}
	if p.mode != mode.Advanced {
		p.reset()
		p.mode = mode.Advanced
	}
	p.selected = &q
	return nil
}

// Selected returns the selected saved query, if any.
func (p *Panel) Selected() (savedquery.SavedQuery, bool) {
	if p.selected == nil {
		return savedquery.SavedQuery{}, false
	}
	return *p.selected, true
}

// Search builds criteria for the active mode and hands them to the listener.
func (p *Panel) Search(sess session.Session) (criteria.Criteria, error) {
	var (
		c   criteria.Criteria
		err error
	)
	switch p.mode {
	case mode.Basic:
		c = p.builder.BuildFromBasicInputs(sess, p.schema, p.Inputs())
	case mode.Advanced:
		if p.selected == nil {
			return criteria.Criteria{}, domain.ErrNoQuerySelected
		}
		c, err = p.builder.BuildFromSavedQuery(sess, *p.selected)
		if err != nil {
			return criteria.Criteria{}, err
		}
	}
	if p.listener != nil {
		p.listener(c)
	}
	return c, nil
}

func (p *Panel) reset() {
	p.inputs = Inputs{}
	p.selected = nil
}
