package db

// SortOrder is the SORTBY direction.
type SortOrder string

const (
	// SortAsc sorts ascending.
	SortAsc SortOrder = "ASC"
	// SortDesc sorts descending.
	SortDesc SortOrder = "DESC"
)

// ListQuery is the input for a paged FT.SEARCH.
type ListQuery struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int
	SortBy       string
	Order        SortOrder
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
