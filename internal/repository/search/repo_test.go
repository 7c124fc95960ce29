package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/crmfilter/internal/db"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
)

func TestSearch_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	c := mustCriteria(t, schema.CaseSchema(), 42)

	var got *db.ListQuery
	ms.searchListFn = func(_ context.Context, q *db.ListQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				{Key: "crm:case:c-1", Fields: map[string]string{"subject": "Server down"}},
				{Key: "crm:case:c-2", Fields: map[string]string{"subject": "Printer jam"}},
			},
		}, nil
	}

	page, err := request.NewPage(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	res, err := repo.Search(context.Background(), c, page)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got.IndexName != "crm:case:idx" {
		t.Errorf("IndexName = %q", got.IndexName)
	}
	if got.Query != "@saccountid:[42 42]" {
		t.Errorf("Query = %q", got.Query)
	}
	if got.Offset != 10 || got.Limit != 2 {
		t.Errorf("paging = %d/%d, want 10/2", got.Offset, got.Limit)
	}
	if got.SortBy != "lastupdatedtime" || got.Order != db.SortDesc {
		t.Errorf("sort = %s %s", got.SortBy, got.Order)
	}

	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if res.CriteriaID != c.ID() {
		t.Errorf("CriteriaID = %q, want %q", res.CriteriaID, c.ID())
	}
	if len(res.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(res.Records))
	}
	if res.Records[0].ID() != "c-1" {
		t.Errorf("Records[0].ID() = %q, want c-1", res.Records[0].ID())
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchListFn = func(context.Context, *db.ListQuery) (*db.SearchResult, error) {
		return nil, db.ErrIndexNotFound
	}

	_, err := repo.Search(context.Background(), mustCriteria(t, schema.BugSchema(), 1), request.DefaultPage())
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("err = %v, want ErrIndexNotFound", err)
	}
}

func TestCount(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "t:")

	ms.searchCountFn = func(_ context.Context, index, query string) (int, error) {
		if index != "t:bug:idx" {
			t.Errorf("index = %q", index)
		}
		if query != "@saccountid:[9 9]" {
			t.Errorf("query = %q", query)
		}
		return 17, nil
	}

	n, err := repo.Count(context.Background(), mustCriteria(t, schema.BugSchema(), 9))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 17 {
		t.Errorf("Count = %d, want 17", n)
	}
}
