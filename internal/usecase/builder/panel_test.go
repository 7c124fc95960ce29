package builder

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/mode"
)

type recorder struct {
	got []criteria.Criteria
}

func (r *recorder) listen(c criteria.Criteria) { r.got = append(r.got, c) }

func newCasePanel(rec *recorder) *Panel {
	b := New(schema.Default()).WithClock(fixedClock(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)))
	var l Listener
	if rec != nil {
		l = rec.listen
	}
	return NewPanel(b, schema.CaseSchema(), l)
}

func TestPanel_StartsInBasicMode(t *testing.T) {
	p := newCasePanel(nil)
	if p.Mode() != mode.Basic {
		t.Errorf("Mode = %q, want basic", p.Mode())
	}
	if _, ok := p.Selected(); ok {
		t.Error("new panel has a selected query")
	}
}

func TestPanel_SwitchDiscardsOtherModeState(t *testing.T) {
	p := newCasePanel(nil)
	_ = p.SetInput("subject", "printer")
	_ = p.SetMineOnly(true)

	if err := p.SwitchMode(mode.Advanced); err != nil {
		t.Fatal(err)
	}
	if err := p.SwitchMode(mode.Basic); err != nil {
		t.Fatal(err)
	}
	if len(p.Inputs()) != 0 {
		t.Errorf("Inputs = %v, want empty after round trip", p.Inputs())
	}

	q := lookupQuery(t, schema.Case, savedquery.OpenCases)
	if err := p.Select(q); err != nil {
		t.Fatal(err)
	}
	if err := p.SwitchMode(mode.Basic); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Selected(); ok {
		t.Error("selected query survived switch to basic")
	}
}

func TestPanel_SwitchIsIdempotent(t *testing.T) {
	p := newCasePanel(nil)
	_ = p.SetInput("subject", "printer")

	if err := p.SwitchMode(mode.Basic); err != nil {
		t.Fatal(err)
	}
	if got := p.Inputs()["subject"]; got != "printer" {
		t.Errorf("subject = %q after switching to active mode, want kept", got)
	}

	if err := p.SwitchMode(mode.Mode("expert")); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPanel_SelectActivatesAdvanced(t *testing.T) {
	p := newCasePanel(nil)
	_ = p.SetInput("subject", "printer")

	q := lookupQuery(t, schema.Case, savedquery.MyCases)
	if err := p.Select(q); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if p.Mode() != mode.Advanced {
		t.Errorf("Mode = %q, want advanced", p.Mode())
	}
	if len(p.Inputs()) != 0 {
		t.Errorf("basic inputs kept after select: %v", p.Inputs())
	}
	if sel, ok := p.Selected(); !ok || sel.ID() != savedquery.MyCases {
		t.Errorf("Selected = %v, %v", sel.ID(), ok)
	}

	other := lookupQuery(t, schema.Bug, savedquery.MyBugs)
	if err := p.Select(other); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Select(bug query) err = %v, want ErrNotFound", err)
	}
}

func TestPanel_WrongModeActions(t *testing.T) {
	p := newCasePanel(nil)
	_ = p.SwitchMode(mode.Advanced)

	if err := p.SetInput("subject", "x"); !errors.Is(err, domain.ErrWrongMode) {
		t.Errorf("SetInput err = %v, want ErrWrongMode", err)
	}
	if err := p.SetMineOnly(true); !errors.Is(err, domain.ErrWrongMode) {
		t.Errorf("SetMineOnly err = %v, want ErrWrongMode", err)
	}
	if _, err := p.Search(mustSession(t, 1, "u")); !errors.Is(err, domain.ErrNoQuerySelected) {
		t.Errorf("Search err = %v, want ErrNoQuerySelected", err)
	}
}

func TestPanel_SearchNotifiesListener(t *testing.T) {
	rec := &recorder{}
	p := newCasePanel(rec)
	sess := mustSession(t, 42, "alice")

	_ = p.SetInput("subject", " outage ")
	if len(rec.got) != 0 {
		t.Fatal("listener called before Search")
	}
	basic, err := p.Search(sess)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if err := p.Select(lookupQuery(t, schema.Case, savedquery.MyCases)); err != nil {
		t.Fatal(err)
	}
	advanced, err := p.Search(sess)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(rec.got) != 2 {
		t.Fatalf("listener calls = %d, want 2", len(rec.got))
	}
	if rec.got[0].ID() != basic.ID() || rec.got[1].ID() != advanced.ID() {
		t.Error("listener received different criteria than Search returned")
	}
	if basic.ID() == advanced.ID() {
		t.Error("criteria ids must be unique per search")
	}

	if f, ok := basic.Field(field.Subject); !ok || f.Value().Str() != "outage" {
		t.Errorf("basic subject = %v, %v", f, ok)
	}
	if _, ok := advanced.Field(field.Subject); ok {
		t.Error("advanced search carries basic subject")
	}
	if f, ok := advanced.Field(field.AssignUser); !ok || !f.Value().Equal(criteria.Set("alice")) {
		t.Errorf("advanced assignuser = %v, %v", f, ok)
	}
}
