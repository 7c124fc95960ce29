package search

import (
	"context"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
)

// Repository defines the query execution contract.
type Repository interface {
	Search(ctx context.Context, c criteria.Criteria, page request.Page) (result.Page, error)
	Count(ctx context.Context, c criteria.Criteria) (int, error)
}

// SchemaSource resolves entity schemas.
type SchemaSource interface {
	Lookup(e schema.Entity) (schema.Schema, error)
}

// QueryCatalog resolves saved queries.
type QueryCatalog interface {
	Lookup(entity schema.Entity, id string) (savedquery.SavedQuery, error)
	List(entity schema.Entity) []savedquery.SavedQuery
}

// CriteriaBuilder turns user input and saved queries into criteria.
type CriteriaBuilder interface {
	BuildFromBasicInputs(sess session.Session, s schema.Schema, in builder.Inputs) criteria.Criteria
	BuildFromSavedQuery(sess session.Session, q savedquery.SavedQuery) (criteria.Criteria, error)
}
