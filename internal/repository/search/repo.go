package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/crmfilter/internal/db"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/repository/index"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a search repository. An empty prefix uses index.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = index.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Search returns one page of records matching c, most recently updated first.
func (r *Repo) Search(ctx context.Context, c criteria.Criteria, page request.Page) (result.Page, error) {
	q := &db.ListQuery{
		IndexName: index.Name(r.prefix, c.Entity()),
		Query:     BuildQuery(c),
		Offset:    page.Offset(),
		Limit:     page.Limit(),
		SortBy:    field.LastUpdatedTime.Name(),
		Order:     db.SortDesc,
	}

	sr, err := r.store.SearchList(ctx, q)
	if err != nil {
		return result.Page{}, fmt.Errorf("search %s: %w", c.Entity(), err)
	}

	keyPrefix := index.KeyPrefix(r.prefix, c.Entity())
	records := make([]result.Record, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		records = append(records, result.New(strings.TrimPrefix(e.Key, keyPrefix), e.Fields))
	}

	return result.Page{CriteriaID: c.ID(), Total: sr.Total, Records: records}, nil
}

// Count returns the number of records matching c.
func (r *Repo) Count(ctx context.Context, c criteria.Criteria) (int, error) {
	n, err := r.store.SearchCount(ctx, index.Name(r.prefix, c.Entity()), BuildQuery(c))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.Entity(), err)
	}
	return n, nil
}
