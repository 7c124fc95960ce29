package crmfilter

import (
	"context"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/savedquery"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
	healthuc "github.com/kailas-cloud/crmfilter/internal/usecase/health"
	searchuc "github.com/kailas-cloud/crmfilter/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	basicFn func(
		ctx context.Context, sess session.Session, entity schema.Entity, in builder.Inputs, page request.Page,
	) (result.Page, error)
	savedFn func(
		ctx context.Context, sess session.Session, entity schema.Entity, queryID string, page request.Page,
	) (result.Page, error)
	advancedFn func(
		ctx context.Context, sess session.Session, entity schema.Entity, preds []builder.Predicate, page request.Page,
	) (result.Page, error)
	savedQueriesFn func(
		ctx context.Context, sess session.Session, entity schema.Entity, counts bool,
	) ([]searchuc.QuerySummary, error)
	runFn func(ctx context.Context, c criteria.Criteria, page request.Page) (result.Page, error)
}

func (m *mockSearchUC) Basic(
	ctx context.Context, sess session.Session, entity schema.Entity, in builder.Inputs, page request.Page,
) (result.Page, error) {
	return m.basicFn(ctx, sess, entity, in, page)
}

func (m *mockSearchUC) Saved(
	ctx context.Context, sess session.Session, entity schema.Entity, queryID string, page request.Page,
) (result.Page, error) {
	return m.savedFn(ctx, sess, entity, queryID, page)
}

func (m *mockSearchUC) Advanced(
	ctx context.Context, sess session.Session, entity schema.Entity, preds []builder.Predicate, page request.Page,
) (result.Page, error) {
	return m.advancedFn(ctx, sess, entity, preds, page)
}

func (m *mockSearchUC) SavedQueries(
	ctx context.Context, sess session.Session, entity schema.Entity, counts bool,
) ([]searchuc.QuerySummary, error) {
	return m.savedQueriesFn(ctx, sess, entity, counts)
}

func (m *mockSearchUC) Run(ctx context.Context, c criteria.Criteria, page request.Page) (result.Page, error) {
	return m.runFn(ctx, c, page)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

// testNow is Thursday 2024-03-14, 10:00 UTC.
var testNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func testClient(searchSvc searchUseCase) *Client {
	schemas := schema.Default()
	return &Client{
		search:  searchSvc,
		builder: builder.New(schemas).WithClock(func() time.Time { return testNow }),
		schemas: schemas,
		catalog: savedquery.DefaultCatalog(),
	}
}

var alice = Principal{AccountID: 42, Username: "alice"}
