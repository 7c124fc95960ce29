package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/logger"
	"github.com/kailas-cloud/crmfilter/internal/metrics"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
)

// QuerySummary describes a saved query for listing.
type QuerySummary struct {
	ID      string
	Name    string
	Label   string
	Count   int
	Counted bool
}

// Service runs basic, saved and advanced searches for a session.
type Service struct {
	repo    Repository
	schemas SchemaSource
	queries QueryCatalog
	builder CriteriaBuilder
}

// New creates a search service.
func New(repo Repository, schemas SchemaSource, queries QueryCatalog, b CriteriaBuilder) *Service {
	return &Service{repo: repo, schemas: schemas, queries: queries, builder: b}
}

// Basic searches with the entity's basic form inputs.
func (s *Service) Basic(
	ctx context.Context, sess session.Session, entity schema.Entity, in builder.Inputs, page request.Page,
) (result.Page, error) {
	sc, err := s.schemas.Lookup(entity)
	if err != nil {
		return result.Page{}, fmt.Errorf("lookup schema: %w", err)
	}
	return s.Run(ctx, s.builder.BuildFromBasicInputs(sess, sc, in), page)
}

// Saved searches with a saved query of the entity.
func (s *Service) Saved(
	ctx context.Context, sess session.Session, entity schema.Entity, queryID string, page request.Page,
) (result.Page, error) {
	q, err := s.queries.Lookup(entity, queryID)
	if err != nil {
		return result.Page{}, fmt.Errorf("lookup saved query: %w", err)
	}
	c, err := s.builder.BuildFromSavedQuery(sess, q)
	if err != nil {
		return result.Page{}, err
	}
	return s.Run(ctx, c, page)
}

// Advanced searches with an ad-hoc predicate list.
func (s *Service) Advanced(
	ctx context.Context, sess session.Session, entity schema.Entity, preds []builder.Predicate, page request.Page,
) (result.Page, error) {
	if _, err := s.schemas.Lookup(entity); err != nil {
		return result.Page{}, fmt.Errorf("lookup schema: %w", err)
	}
	q, err := builder.AdHocQuery(entity, preds)
	if err != nil {
		return result.Page{}, err
	}
	c, err := s.builder.BuildFromSavedQuery(sess, q)
	if err != nil {
		return result.Page{}, err
	}
	return s.Run(ctx, c, page)
}

// Run executes criteria and records the search duration.
func (s *Service) Run(ctx context.Context, c criteria.Criteria, page request.Page) (result.Page, error) {
	log := logger.FromContext(ctx).With(
		zap.String("criteria_id", c.ID()),
		zap.String("entity", string(c.Entity())),
		zap.Int("predicates", c.Len()),
	)

	start := time.Now()
	res, err := s.repo.Search(ctx, c, page)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchDuration.WithLabelValues(string(c.Entity()), status).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error("Search failed", zap.Error(err))
		return result.Page{}, fmt.Errorf("run criteria %s: %w", c.ID(), err)
	}
	log.Debug("Search done",
		zap.Int("total", res.Total),
		zap.Int("returned", len(res.Records)),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

// SavedQueries lists the entity's saved queries. With counts, every query is
// resolved for the session and labelled "<name> (<count>)"; queries that fail
// to resolve keep their plain name.
func (s *Service) SavedQueries(
	ctx context.Context, sess session.Session, entity schema.Entity, counts bool,
) ([]QuerySummary, error) {
	if _, err := s.schemas.Lookup(entity); err != nil {
		return nil, fmt.Errorf("lookup schema: %w", err)
	}

	queries := s.queries.List(entity)
	out := make([]QuerySummary, 0, len(queries))
	for _, q := range queries {
		sum := QuerySummary{ID: q.ID(), Name: q.Name(), Label: q.Name()}
		if counts {
			if n, err := s.count(ctx, sess, q); err == nil {
				sum.Count = n
				sum.Counted = true
				sum.Label = q.Label(n)
			} else {
				logger.FromContext(ctx).Warn("Saved query count failed",
					zap.String("query", q.ID()),
					zap.Error(err),
				)
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *Service) count(ctx context.Context, sess session.Session, q savedquery.SavedQuery) (int, error) {
	c, err := s.builder.BuildFromSavedQuery(sess, q)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.ID(), err)
	}
	return n, nil
}
