package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/crmfilter/internal/db"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchListFn  func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func mustField(t *testing.T, join criteria.Join, id field.ID, op criteria.Op, v criteria.Value) criteria.SearchField {
	t.Helper()
	f, err := criteria.NewSearchField(join, id, op, v)
	if err != nil {
		t.Fatalf("NewSearchField(%s): %v", id, err)
	}
	return f
}

func mustCriteria(t *testing.T, s schema.Schema, tenant int64, fields ...criteria.SearchField) criteria.Criteria {
	t.Helper()
	c, err := criteria.New(s, tenant, fields...)
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	return c
}
