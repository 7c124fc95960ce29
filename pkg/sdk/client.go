package crmfilter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/db"
	dbRedis "github.com/kailas-cloud/crmfilter/internal/db/redis"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/repository/index"
	savedqueryrepo "github.com/kailas-cloud/crmfilter/internal/repository/savedquery"
	searchrepo "github.com/kailas-cloud/crmfilter/internal/repository/search"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
	healthuc "github.com/kailas-cloud/crmfilter/internal/usecase/health"
	searchuc "github.com/kailas-cloud/crmfilter/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Basic(
		ctx context.Context, sess session.Session, entity schema.Entity, in builder.Inputs, page request.Page,
	) (result.Page, error)
	Saved(
		ctx context.Context, sess session.Session, entity schema.Entity, queryID string, page request.Page,
	) (result.Page, error)
	Advanced(
		ctx context.Context, sess session.Session, entity schema.Entity, preds []builder.Predicate, page request.Page,
	) (result.Page, error)
	SavedQueries(
		ctx context.Context, sess session.Session, entity schema.Entity, counts bool,
	) ([]searchuc.QuerySummary, error)
	Run(ctx context.Context, c criteria.Criteria, page request.Page) (result.Page, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the crmfilter SDK entry point.
type Client struct {
	store   db.Store
	search  searchUseCase
	health  healthUseCase
	builder *builder.Builder
	schemas *schema.Registry
	catalog *savedquery.Catalog
	obs     *observer
}

// New creates a Client, connects to the database and creates missing entity indexes.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: index.DefaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.keyPrefix == "" {
		cfg.keyPrefix = index.DefaultKeyPrefix
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("crmfilter: database address required (use WithRedis or WithCluster)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("crmfilter: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("crmfilter: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}

	if !cfg.skipEnsure {
		if err := index.NewManager(store, cfg.keyPrefix, nil).Ensure(ctx, allSchemas(c.schemas)...); err != nil {
			store.Close()
			return nil, fmt.Errorf("crmfilter: ensure indexes: %w", err)
		}
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	schemas := schema.Default()
	catalog := savedquery.DefaultCatalog()
	if cfg.savedQueriesFile != "" {
		if _, err := savedqueryrepo.LoadInto(catalog, schemas, cfg.savedQueriesFile); err != nil {
			return nil, fmt.Errorf("crmfilter: load saved queries: %w", err)
		}
	}

	b := builder.New(schemas)
	if cfg.clock != nil {
		b = b.WithClock(cfg.clock)
	}

	names := make([]string, 0, len(schemas.Entities()))
	for _, e := range schemas.Entities() {
		names = append(names, index.Name(cfg.keyPrefix, e))
	}

	return &Client{
		store:   store,
		search:  searchuc.New(searchrepo.New(store, cfg.keyPrefix), schemas, catalog, b),
		health:  healthuc.New(store, store, names...),
		builder: b,
		schemas: schemas,
		catalog: catalog,
		obs:     obs,
	}, nil
}

func allSchemas(r *schema.Registry) []schema.Schema {
	out := make([]schema.Schema, 0, len(r.Entities()))
	for _, e := range r.Entities() {
		if s, err := r.Lookup(e); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns the search service of an entity for a principal.
func (c *Client) Search(entity Entity, p Principal) *SearchService {
	return &SearchService{
		entity:    entity,
		principal: p,
		svc:       c.search,
		obs:       c.obs,
	}
}

// Panel creates a search panel in basic mode for one user view.
func (c *Client) Panel(entity Entity, p Principal) (*Panel, error) {
	sess, err := toSession(p)
	if err != nil {
		return nil, err
	}
	s, err := c.schemas.Lookup(schema.Entity(entity))
	if err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}
	return &Panel{
		entity:  entity,
		sess:    sess,
		inner:   builder.NewPanel(c.builder, s, nil),
		catalog: c.catalog,
		svc:     c.search,
		obs:     c.obs,
	}, nil
}

func toSession(p Principal) (session.Session, error) {
	sess, err := session.New(p.AccountID, p.Username)
	if err != nil {
		return session.Session{}, fmt.Errorf("crmfilter: %w", err)
	}
	if p.ProjectID > 0 {
		sess = sess.WithProject(p.ProjectID)
	}
	return sess, nil
}
