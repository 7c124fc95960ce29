package builder

import (
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// SchemaSource resolves entity schemas (the param fields of an entity).
type SchemaSource interface {
	Lookup(e schema.Entity) (schema.Schema, error)
}

// Listener receives criteria produced by a panel search action.
type Listener func(c criteria.Criteria)
