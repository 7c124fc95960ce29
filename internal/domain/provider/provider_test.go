package provider

import (
	"testing"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConstant(t *testing.T) {
	p := Strings("Open", "ReOpen")
	if p.Type() != Constant {
		t.Errorf("Type() = %q", p.Type())
	}
	v := p.Evaluate(Env{})
	if !v.Equal(criteria.Set("Open", "ReOpen")) {
		t.Errorf("Evaluate() = %s", v)
	}
	if got := String("Verified").Evaluate(Env{}); got.Str() != "Verified" {
		t.Errorf("String() = %s", got)
	}
	if got := Value(criteria.Number(3)).Evaluate(Env{}); got.Num() != 3 {
		t.Errorf("Value() = %s", got)
	}
}

func TestToday_Fresh(t *testing.T) {
	p, ok := For(Today)
	if !ok {
		t.Fatal("For(today) not found")
	}
	d1 := p.Evaluate(Env{Now: time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)})
	d2 := p.Evaluate(Env{Now: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)})
	if !d1.Date().Equal(day(2024, 3, 14)) {
		t.Errorf("day 1 = %s", d1)
	}
	if d1.Equal(d2) {
		t.Error("today must change with the clock")
	}
}

func TestWeeks(t *testing.T) {
	this, _ := For(ThisWeek)
	last, _ := For(LastWeek)

	tests := []struct {
		name     string
		now      time.Time
		from, to time.Time
		lastFrom time.Time
	}{
		{"thursday", time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC), day(2024, 3, 11), day(2024, 3, 17), day(2024, 3, 4)},
		{"monday", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), day(2024, 3, 11), day(2024, 3, 17), day(2024, 3, 4)},
		{"sunday", time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC), day(2024, 3, 11), day(2024, 3, 17), day(2024, 3, 4)},
		{"year boundary", time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), day(2024, 12, 30), day(2025, 1, 5), day(2024, 12, 23)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := this.Evaluate(Env{Now: tt.now}).Range()
			if !from.Equal(tt.from) || !to.Equal(tt.to) {
				t.Errorf("this week = %s..%s, want %s..%s", from, to, tt.from, tt.to)
			}
			lf, lt := last.Evaluate(Env{Now: tt.now}).Range()
			if !lf.Equal(tt.lastFrom) || !lt.Equal(tt.lastFrom.AddDate(0, 0, 6)) {
				t.Errorf("last week = %s..%s", lf, lt)
			}
		})
	}
	if this.Type() != ThisWeek || last.Type() != LastWeek {
		t.Error("week tags mismatch")
	}
	if !this.Evaluate(Env{}).IsBlank() {
		t.Error("week without clock must be blank")
	}
}

func TestCurrentUserAndProject(t *testing.T) {
	u, _ := For(CurrentUser)
	if got := u.Evaluate(Env{Username: "alice"}); got.Str() != "alice" {
		t.Errorf("current user = %s", got)
	}
	if !u.Evaluate(Env{}).IsBlank() {
		t.Error("no user must be blank")
	}

	p, _ := For(CurrentProject)
	if got := p.Evaluate(Env{ProjectID: 12}); !got.Equal(criteria.Set("12")) {
		t.Errorf("current project = %s", got)
	}
	if !p.Evaluate(Env{}).IsBlank() {
		t.Error("no project must be blank")
	}
}

func TestFor_Unknown(t *testing.T) {
	for _, tag := range []Tag{Constant, "", "tomorrow"} {
		if _, ok := For(tag); ok {
			t.Errorf("For(%q) found", tag)
		}
	}
}
