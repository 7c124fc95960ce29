package builder

import (
	"fmt"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/provider"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// AdHocQueryID identifies queries composed in the advanced search layout.
const AdHocQueryID = "ad-hoc"

// Predicate is one row of the advanced search layout.
type Predicate struct {
	Join  criteria.Join
	Field string
	Op    criteria.Op
	Value criteria.Value
}

// AdHocQuery turns advanced layout rows into a saved query of constant values.
// Build it with BuildFromSavedQuery to get schema validation and tenant scoping.
func AdHocQuery(entity schema.Entity, preds []Predicate) (savedquery.SavedQuery, error) {
	templates := make([]savedquery.Template, 0, len(preds))
	for _, p := range preds {
		id, ok := field.Parse(p.Field)
		if !ok {
			return savedquery.SavedQuery{}, domain.NewInvalidTemplate(AdHocQueryID, p.Field,
				fmt.Errorf("%w: %q", criteria.ErrUnknownField, p.Field))
		}
		if !p.Op.IsValid() {
			return savedquery.SavedQuery{}, domain.NewInvalidTemplate(AdHocQueryID, p.Field,
				fmt.Errorf("%w: unknown operator %q", criteria.ErrOpMismatch, p.Op))
		}
		join := p.Join
		if join == "" {
			join = criteria.And
		}
		templates = append(templates, savedquery.Where(join, id, p.Op, provider.Value(p.Value)))
	}

	q, err := savedquery.New(AdHocQueryID, "Advanced search", entity, templates...)
	if err != nil {
		return savedquery.SavedQuery{}, domain.NewInvalidTemplate(AdHocQueryID, "", err)
	}
	return q, nil
}
