package savedquery

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/provider"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

const dateLayout = "2006-01-02"

var (
	errUnknownOp       = errors.New("unknown operator")
	errUnknownProvider = errors.New("unknown value provider")
	errBadValue        = errors.New("invalid constant value")
)

// LoadFile reads saved queries from a YAML file.
func LoadFile(path string) ([]savedquery.SavedQuery, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read saved queries %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes saved queries from YAML. Unknown keys are rejected.
// Unknown field, operator or provider names fail with *domain.InvalidTemplateError.
func Parse(data []byte) ([]savedquery.SavedQuery, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f fileDTO
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse saved queries: %w", err)
	}

	out := make([]savedquery.SavedQuery, 0, len(f.Queries))
	for _, q := range f.Queries {
		sq, err := toDomain(q)
		if err != nil {
			return nil, err
		}
		out = append(out, sq)
	}
	return out, nil
}

// SchemaSource resolves entity schemas.
type SchemaSource interface {
	Lookup(e schema.Entity) (schema.Schema, error)
}

// LoadInto parses path, checks every query against its entity schema and adds
// them to c. Nothing is added when any query fails.
func LoadInto(c *savedquery.Catalog, schemas SchemaSource, path string) (int, error) {
	queries, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for _, q := range queries {
		if err := checkSchema(schemas, q); err != nil {
			return 0, err
		}
	}
	for _, q := range queries {
		if err := c.Add(q); err != nil {
			return 0, err
		}
	}
	return len(queries), nil
}

func checkSchema(schemas SchemaSource, q savedquery.SavedQuery) error {
	s, err := schemas.Lookup(q.Entity())
	if err != nil {
		return domain.NewInvalidTemplate(q.ID(), "", err)
	}
	for _, t := range q.Templates() {
		if t.Field == field.Tenant {
			return domain.NewInvalidTemplate(q.ID(), t.Field.Name(), criteria.ErrTenantOverride)
		}
		if !s.Has(t.Field) {
			return domain.NewInvalidTemplate(q.ID(), t.Field.Name(), criteria.ErrUnknownField)
		}
	}
	return nil
}

func toDomain(q queryDTO) (savedquery.SavedQuery, error) {
	templates := make([]savedquery.Template, 0, len(q.Predicates))
	for _, t := range q.Predicates {
		tpl, err := toTemplate(t)
		if err != nil {
			return savedquery.SavedQuery{}, domain.NewInvalidTemplate(q.ID, t.Field, err)
		}
		templates = append(templates, tpl)
	}

	sq, err := savedquery.New(q.ID, q.Name, schema.Entity(q.Entity), templates...)
	if err != nil {
		return savedquery.SavedQuery{}, domain.NewInvalidTemplate(q.ID, "", err)
	}
	return sq, nil
}

func toTemplate(t templateDTO) (savedquery.Template, error) {
	id, ok := field.Parse(t.Field)
	if !ok {
		return savedquery.Template{}, fmt.Errorf("%w: %q", criteria.ErrUnknownField, t.Field)
	}

	op := criteria.Op(strings.ToLower(t.Op))
	if !op.IsValid() {
		return savedquery.Template{}, fmt.Errorf("%w: %q", errUnknownOp, t.Op)
	}

	join := criteria.Join(strings.ToUpper(t.Join))
	if join == "" {
		join = criteria.And
	}
	if !join.IsValid() {
		return savedquery.Template{}, fmt.Errorf("%w: %q", criteria.ErrInvalidJoin, t.Join)
	}

	tag := provider.Tag(strings.ToLower(t.Provider))
	if tag == "" || tag == provider.Constant {
		v, err := constant(id, &t.Value)
		if err != nil {
			return savedquery.Template{}, err
		}
		return savedquery.Where(join, id, op, provider.Value(v)), nil
	}

	p, ok := provider.For(tag)
	if !ok {
		return savedquery.Template{}, fmt.Errorf("%w: %q", errUnknownProvider, t.Provider)
	}
	return savedquery.Where(join, id, op, p), nil
}

// constant decodes a literal for field id: sequences become sets, dates use
// YYYY-MM-DD (a from/to mapping is a range), integers on numeric fields are numbers.
func constant(id field.ID, n *yaml.Node) (criteria.Value, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := n.Decode(&items); err != nil {
			return criteria.Value{}, fmt.Errorf("%w: %v", errBadValue, err)
		}
		return criteria.Set(items...), nil

	case yaml.MappingNode:
		var r rangeDTO
		if err := n.Decode(&r); err != nil {
			return criteria.Value{}, fmt.Errorf("%w: %v", errBadValue, err)
		}
		from, err := time.Parse(dateLayout, r.From)
		if err != nil {
			return criteria.Value{}, fmt.Errorf("%w: from: %v", errBadValue, err)
		}
		to, err := time.Parse(dateLayout, r.To)
		if err != nil {
			return criteria.Value{}, fmt.Errorf("%w: to: %v", errBadValue, err)
		}
		if from.After(to) {
			return criteria.Value{}, fmt.Errorf("%w: %w", errBadValue, criteria.ErrReversedRange)
		}
		return criteria.DateRange(from, to), nil

	case yaml.ScalarNode:
		switch id.FieldType() {
		case field.Date:
			d, err := time.Parse(dateLayout, n.Value)
			if err != nil {
				return criteria.Value{}, fmt.Errorf("%w: %v", errBadValue, err)
			}
			return criteria.Date(d), nil
		case field.Numeric:
			num, err := strconv.ParseInt(n.Value, 10, 64)
			if err != nil {
				return criteria.Value{}, fmt.Errorf("%w: %v", errBadValue, err)
			}
			return criteria.Number(num), nil
		default:
			return criteria.String(n.Value), nil
		}
	}

	return criteria.Value{}, fmt.Errorf("%w: missing value", errBadValue)
}
