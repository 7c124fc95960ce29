package builder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/provider"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/metrics"
)

// Criteria sources for metrics and logs.
const (
	SourceBasic = "basic"
	SourceSaved = "saved"
)

// Inputs maps basic-form input names to raw user-entered values.
type Inputs map[string]string

// Builder assembles search criteria from basic inputs or saved queries.
// It holds no per-request state and is safe for concurrent use.
type Builder struct {
	schemas SchemaSource
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a criteria builder.
func New(schemas SchemaSource) *Builder {
	return &Builder{schemas: schemas, now: time.Now, logger: zap.NewNop()}
}

// WithClock overrides the clock used to resolve dynamic values.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// WithLogger sets the builder logger.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// BuildFromBasicInputs builds criteria from the entity's basic search form.
// Text inputs are trimmed and omitted when blank; the mine-only toggle adds a
// set predicate with the current user or nothing at all. Unknown inputs are
// ignored. It never fails on user input; a session without tenant panics.
func (b *Builder) BuildFromBasicInputs(sess session.Session, s schema.Schema, in Inputs) criteria.Criteria {
	requireTenant(sess)

	var fields []criteria.SearchField
	for _, ti := range s.TextInputs() {
		raw := strings.TrimSpace(in[ti.Name])
		if raw == "" {
			continue
		}
		op := criteria.Eq
		if ti.Field.FieldType() == field.Text {
			op = criteria.Like
		}
		f, err := criteria.NewSearchField(criteria.And, ti.Field, op, criteria.String(raw))
		if err != nil {
			b.logger.Warn("Dropping basic input",
				zap.String("input", ti.Name),
				zap.Error(err),
			)
			continue
		}
		fields = append(fields, f)
	}

	if mf := s.MineOnlyField(); mf != field.Unknown && isChecked(in[schema.MineOnlyInput]) {
		if f, err := criteria.NewSearchField(criteria.And, mf, criteria.In, criteria.Set(sess.Username())); err == nil {
			fields = append(fields, f)
		} else {
			b.logger.Debug("Mine-only toggle without current user", zap.Error(err))
		}
	}

	for name := range in {
		if _, ok := s.TextInput(name); !ok && name != schema.MineOnlyInput {
			b.logger.Debug("Ignoring unknown basic input", zap.String("input", name))
		}
	}

	c, err := criteria.New(s, sess.TenantID(), fields...)
	if err != nil {
		// Fields come from the schema's own form, so only a broken schema gets here.
		panic(fmt.Sprintf("build basic criteria for %q: %v", s.Entity(), err))
	}
	b.record(c, SourceBasic)
	return c
}

// BuildFromSavedQuery resolves a saved query at call time and scopes it to the session tenant.
// Templates outside the entity schema, touching the tenant field, or with an
// operator that does not fit the field fail with an *domain.InvalidTemplateError.
// Blank resolutions (no current user/project) are omitted.
func (b *Builder) BuildFromSavedQuery(sess session.Session, q savedquery.SavedQuery) (criteria.Criteria, error) {
	requireTenant(sess)

	s, err := b.schemas.Lookup(q.Entity())
	if err != nil {
		return b.invalid(q, "", err)
	}

	env := provider.Env{Now: b.now(), Username: sess.Username(), ProjectID: sess.ProjectID()}
	fields := make([]criteria.SearchField, 0, len(q.Templates()))
	for _, t := range q.Templates() {
		if t.Field == field.Tenant {
			return b.invalid(q, t.Field.Name(), criteria.ErrTenantOverride)
		}
		if !s.Has(t.Field) {
			return b.invalid(q, t.Field.Name(), criteria.ErrUnknownField)
		}

		v := coerce(t.Op, t.Provider.Evaluate(env))
		if !criteria.Accepts(t.Field.FieldType(), t.Op, v.Kind()) {
			return b.invalid(q, t.Field.Name(), fmt.Errorf("%w: %s %s on %s field",
				criteria.ErrOpMismatch, t.Op, v.Kind(), t.Field.FieldType()))
		}
		if v.IsBlank() {
			b.logger.Debug("Omitting blank saved query predicate",
				zap.String("query", q.ID()),
				zap.String("field", t.Field.Name()),
				zap.String("provider", string(t.Provider.Type())),
			)
			continue
		}

		f, err := criteria.NewSearchField(t.Join, t.Field, t.Op, v)
		if err != nil {
			return b.invalid(q, t.Field.Name(), err)
		}
		fields = append(fields, f)
	}

	c, err := criteria.New(s, sess.TenantID(), fields...)
	if err != nil {
		return b.invalid(q, "", err)
	}
	b.record(c, SourceSaved)
	return c, nil
}

func (b *Builder) invalid(q savedquery.SavedQuery, fieldName string, cause error) (criteria.Criteria, error) {
	metrics.InvalidTemplatesTotal.WithLabelValues(string(q.Entity()), q.ID()).Inc()
	err := domain.NewInvalidTemplate(q.ID(), fieldName, cause)
	b.logger.Warn("Invalid saved query", zap.Error(err))
	return criteria.Criteria{}, err
}

func (b *Builder) record(c criteria.Criteria, source string) {
	entity := string(c.Entity())
	metrics.CriteriaBuiltTotal.WithLabelValues(entity, source).Inc()
	metrics.CriteriaPredicates.WithLabelValues(entity).Observe(float64(c.Len()))
	b.logger.Debug("Criteria built",
		zap.String("criteria_id", c.ID()),
		zap.String("entity", entity),
		zap.String("source", source),
		zap.Int("predicates", c.Len()),
	)
}

// coerce lifts single values into sets for set-membership operators.
func coerce(op criteria.Op, v criteria.Value) criteria.Value {
	if !op.IsSet() {
		return v
	}
	switch v.Kind() {
	case criteria.KindString:
		return criteria.Set(v.Str())
	case criteria.KindNumber:
		return criteria.Set(strconv.FormatInt(v.Num(), 10))
	}
	return v
}

func isChecked(raw string) bool {
	on, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && on
}

func requireTenant(sess session.Session) {
	if !sess.IsValid() {
		panic(fmt.Errorf("build criteria: %w", domain.ErrMissingTenant))
	}
}

// IsInvalidTemplate reports whether err is a saved query template error.
func IsInvalidTemplate(err error) bool {
	return errors.Is(err, domain.ErrInvalidTemplate)
}
