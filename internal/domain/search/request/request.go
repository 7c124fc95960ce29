package request

import "fmt"

// Paging limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxOffset    = 10000
)

// Page is a validated result window.
type Page struct {
	offset int
	limit  int
}

// NewPage validates and normalizes paging parameters.
// A non-positive limit falls back to DefaultLimit; limits above MaxLimit are clamped.
func NewPage(offset, limit int) (Page, error) {
	if offset < 0 {
		return Page{}, fmt.Errorf("offset must not be negative")
	}
	if offset > MaxOffset {
		return Page{}, fmt.Errorf("offset too large (max %d)", MaxOffset)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{offset: offset, limit: limit}, nil
}

// DefaultPage is the first page with the default limit.
func DefaultPage() Page { return Page{limit: DefaultLimit} }

// Offset returns the number of records to skip.
func (p Page) Offset() int { return p.offset }

// Limit returns the page size.
func (p Page) Limit() int { return p.limit }
