package crmfilter

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/mode"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
)

// Panel is the state of one search panel: basic inputs or a selected saved
// query, never both. Switching modes discards what was composed in the other
// mode. Nothing runs until Search. A Panel is not safe for concurrent use.
type Panel struct {
	entity  Entity
	sess    session.Session
	inner   *builder.Panel
	catalog *savedquery.Catalog
	svc     searchUseCase
	obs     *observer
}

// Mode returns the active mode.
func (p *Panel) Mode() Mode { return Mode(p.inner.Mode()) }

// SwitchMode activates m; switching to the active mode keeps its state.
func (p *Panel) SwitchMode(m Mode) error {
	return p.inner.SwitchMode(mode.Mode(m))
}

// SetInput sets a basic-form text input. Fails with ErrWrongMode in advanced mode.
func (p *Panel) SetInput(name, value string) error {
	return p.inner.SetInput(name, value)
}

// SetMineOnly toggles the "my items" checkbox. Fails with ErrWrongMode in advanced mode.
func (p *Panel) SetMineOnly(on bool) error {
	return p.inner.SetMineOnly(on)
}

// Select picks a saved query of the panel's entity and activates advanced mode.
func (p *Panel) Select(queryID string) error {
	q, err := p.catalog.Lookup(schema.Entity(p.entity), queryID)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	return p.inner.Select(q)
}

// Selected returns the id of the selected saved query.
func (p *Panel) Selected() (string, bool) {
	q, ok := p.inner.Selected()
	if !ok {
		return "", false
	}
	return q.ID(), true
}

// Search builds criteria for the active mode and runs them.
func (p *Panel) Search(ctx context.Context, page Page) (res Result, err error) {
	start := time.Now()
	defer func() { p.obs.observe("panel_search", p.entity, start, err) }()

	rp, err := toPage(page)
	if err != nil {
		return Result{}, err
	}
	c, err := p.inner.Search(p.sess)
	if err != nil {
		return Result{}, fmt.Errorf("panel search: %w", err)
	}
	out, err := p.svc.Run(ctx, c, rp)
	if err != nil {
		return Result{}, fmt.Errorf("panel search: %w", err)
	}
	return fromResultPage(out), nil
}
