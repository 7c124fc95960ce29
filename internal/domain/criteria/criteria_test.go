package criteria

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

func mustField(t *testing.T, join Join, id field.ID, op Op, v Value) SearchField {
	t.Helper()
	f, err := NewSearchField(join, id, op, v)
	if err != nil {
		t.Fatalf("NewSearchField(%s): %v", id, err)
	}
	return f
}

func TestNew_TenantOnly(t *testing.T) {
	c, err := New(schema.CaseSchema(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TenantID() != 42 {
		t.Errorf("TenantID() = %d", c.TenantID())
	}
	if c.Len() != 1 || len(c.Predicates()) != 0 {
		t.Errorf("Len() = %d, Predicates() = %v", c.Len(), c.Predicates())
	}
	tf := c.Tenant()
	if tf.Field() != field.Tenant || tf.Op() != Eq || tf.Value().Num() != 42 {
		t.Errorf("Tenant() = %s", tf)
	}
	if c.ID() == "" {
		t.Error("ID() is empty")
	}
	if c.Entity() != schema.Case {
		t.Errorf("Entity() = %q", c.Entity())
	}
}

func TestNew_OrderAndLookup(t *testing.T) {
	subj := mustField(t, And, field.Subject, Like, String("down"))
	mine := mustField(t, And, field.AssignUser, In, Set("alice"))
	c, err := New(schema.CaseSchema(), 1, subj, mine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := c.Fields()
	if len(all) != 3 {
		t.Fatalf("Fields() len = %d", len(all))
	}
	if all[0].Field() != field.Tenant || all[1].Field() != field.Subject || all[2].Field() != field.AssignUser {
		t.Errorf("order = %v", all)
	}
	if f, ok := c.Field(field.AssignUser); !ok || !f.Equal(mine) {
		t.Errorf("Field(AssignUser) = %v, %v", f, ok)
	}
	if _, ok := c.Field(field.Email); ok {
		t.Error("Field(Email) found on criteria without email")
	}
	if f, ok := c.Field(field.Tenant); !ok || f.Value().Num() != 1 {
		t.Error("Field(Tenant) must return the tenant predicate")
	}
}

func TestNew_Immutable(t *testing.T) {
	subj := mustField(t, And, field.Subject, Like, String("down"))
	in := []SearchField{subj}
	c, err := New(schema.CaseSchema(), 1, in...)
	if err != nil {
		t.Fatal(err)
	}
	in[0] = mustField(t, And, field.Email, Eq, String("x@y.z"))
	got := c.Predicates()
	if got[0].Field() != field.Subject {
		t.Error("criteria shares caller slice")
	}
	got[0] = in[0]
	if c.Predicates()[0].Field() != field.Subject {
		t.Error("Predicates() must return a copy")
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	a, _ := New(schema.BugSchema(), 1)
	b, _ := New(schema.BugSchema(), 1)
	if a.ID() == b.ID() {
		t.Error("two criteria share an id")
	}
}

func TestNew_Errors(t *testing.T) {
	subj := SearchField{join: And, field: field.Subject, op: Like, value: String("x")}
	tenant := SearchField{join: And, field: field.Tenant, op: Eq, value: Number(9)}
	due := SearchField{join: And, field: field.DueDate, op: Before, value: Value{kind: KindDate}}

	tests := []struct {
		name   string
		tenant int64
		fields []SearchField
		want   error
	}{
		{"zero tenant", 0, nil, domain.ErrMissingTenant},
		{"negative tenant", -1, nil, domain.ErrMissingTenant},
		{"tenant override", 1, []SearchField{tenant}, ErrTenantOverride},
		{"duplicate", 1, []SearchField{subj, subj}, ErrDuplicateField},
		{"field of other entity", 1, []SearchField{due}, ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(schema.CaseSchema(), tt.tenant, tt.fields...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
