package crmfilter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
	searchuc "github.com/kailas-cloud/crmfilter/internal/usecase/search"
)

// SearchService runs searches against one entity for one principal.
type SearchService struct {
	entity    Entity
	principal Principal
	svc       searchUseCase
	obs       *observer
}

// Basic searches with the entity's basic form: free-text inputs by name plus
// the "mine only" toggle. Blank inputs and unknown names are ignored.
func (s *SearchService) Basic(
	ctx context.Context, inputs map[string]string, mineOnly bool, page Page,
) (res Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_basic", s.entity, start, err) }()

	sess, err := toSession(s.principal)
	if err != nil {
		return Result{}, err
	}
	p, err := toPage(page)
	if err != nil {
		return Result{}, err
	}

	in := make(builder.Inputs, len(inputs)+1)
	for k, v := range inputs {
		in[k] = v
	}
	if mineOnly {
		in[schema.MineOnlyInput] = strconv.FormatBool(true)
	} else {
		delete(in, schema.MineOnlyInput)
	}

	out, err := s.svc.Basic(ctx, sess, schema.Entity(s.entity), in, p)
	if err != nil {
		return Result{}, fmt.Errorf("basic search: %w", err)
	}
	return fromResultPage(out), nil
}

// Saved searches with a saved query, resolving its dynamic values now.
func (s *SearchService) Saved(ctx context.Context, queryID string, page Page) (res Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_saved", s.entity, start, err) }()

	sess, err := toSession(s.principal)
	if err != nil {
		return Result{}, err
	}
	p, err := toPage(page)
	if err != nil {
		return Result{}, err
	}

	out, err := s.svc.Saved(ctx, sess, schema.Entity(s.entity), queryID, p)
	if err != nil {
		return Result{}, fmt.Errorf("saved search %s: %w", queryID, err)
	}
	return fromResultPage(out), nil
}

// SavedQueries lists the entity's saved queries, optionally with result counts.
func (s *SearchService) SavedQueries(ctx context.Context, counts bool) (out []SavedQueryInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("saved_queries", s.entity, start, err) }()

	sess, err := toSession(s.principal)
	if err != nil {
		return nil, err
	}

	sums, err := s.svc.SavedQueries(ctx, sess, schema.Entity(s.entity), counts)
	if err != nil {
		return nil, fmt.Errorf("saved queries: %w", err)
	}
	return fromSummaries(sums), nil
}

// Query starts an ad-hoc advanced query.
func (s *SearchService) Query() *QueryBuilder {
	return &QueryBuilder{svc: s}
}

func (s *SearchService) advanced(ctx context.Context, preds []builder.Predicate, page Page) (res Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_advanced", s.entity, start, err) }()

	sess, err := toSession(s.principal)
	if err != nil {
		return Result{}, err
	}
	p, err := toPage(page)
	if err != nil {
		return Result{}, err
	}

	out, err := s.svc.Advanced(ctx, sess, schema.Entity(s.entity), preds, p)
	if err != nil {
		return Result{}, fmt.Errorf("advanced search: %w", err)
	}
	return fromResultPage(out), nil
}

func toPage(p Page) (request.Page, error) {
	page, err := request.NewPage(p.Offset, p.Limit)
	if err != nil {
		return request.Page{}, fmt.Errorf("crmfilter: %w", err)
	}
	return page, nil
}

// toValue converts a public predicate value. A time.Time is a calendar date.
func toValue(v any) (criteria.Value, error) {
	switch x := v.(type) {
	case string:
		return criteria.String(x), nil
	case int:
		return criteria.Number(int64(x)), nil
	case int32:
		return criteria.Number(int64(x)), nil
	case int64:
		return criteria.Number(x), nil
	case []string:
		return criteria.Set(x...), nil
	case []int64:
		items := make([]string, len(x))
		for i, n := range x {
			items[i] = strconv.FormatInt(n, 10)
		}
		return criteria.Set(items...), nil
	case []int:
		items := make([]string, len(x))
		for i, n := range x {
			items[i] = strconv.Itoa(n)
		}
		return criteria.Set(items...), nil
	case time.Time:
		return criteria.Date(x), nil
	case DateRange:
		return criteria.DateRange(x.From, x.To), nil
	default:
		return criteria.Value{}, fmt.Errorf("crmfilter: unsupported value type %T", v)
	}
}

func fromResultPage(p result.Page) Result {
	recs := make([]Record, len(p.Records))
	for i := range p.Records {
		r := &p.Records[i]
		recs[i] = Record{ID: r.ID(), Fields: r.Fields()}
	}
	return Result{CriteriaID: p.CriteriaID, Total: p.Total, Records: recs}
}

func fromSummaries(sums []searchuc.QuerySummary) []SavedQueryInfo {
	out := make([]SavedQueryInfo, len(sums))
	for i, s := range sums {
		out[i] = SavedQueryInfo{
			ID:      s.ID,
			Name:    s.Name,
			Label:   s.Label,
			Count:   s.Count,
			Counted: s.Counted,
		}
	}
	return out
}
