package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
	searchuc "github.com/kailas-cloud/crmfilter/internal/usecase/search"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeInvalidTemplate  = "invalid_template"
	codeInternalError    = "internal_error"
)

const dateLayout = time.DateOnly

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// PageRequest carries result paging.
type PageRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// BasicSearchRequest is the body of POST /entities/{entity}/search/basic.
type BasicSearchRequest struct {
	PageRequest
	Inputs   map[string]string `json:"inputs"`
	MineOnly bool              `json:"mine_only"`
}

// SavedSearchRequest is the optional body of POST /entities/{entity}/search/saved/{query}.
type SavedSearchRequest struct {
	PageRequest
}

// AdvancedSearchRequest is the body of POST /entities/{entity}/search/advanced.
type AdvancedSearchRequest struct {
	PageRequest
	Predicates []PredicateRequest `json:"predicates"`
}

// PredicateRequest is one advanced search row. Value is a string, an integer,
// an array, or a {"from","to"} date range; strings on date fields are YYYY-MM-DD.
type PredicateRequest struct {
	Field string          `json:"field"`
	Op    string          `json:"op"`
	Join  string          `json:"join,omitempty"`
	Value json.RawMessage `json:"value"`
}

// dateRangeRequest is the object form of a predicate value.
type dateRangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SearchResponse is a page of matching records.
type SearchResponse struct {
	CriteriaID string       `json:"criteria_id"`
	Total      int          `json:"total"`
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
	Items      []RecordItem `json:"items"`
}

// RecordItem is a single matching record.
type RecordItem struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// SavedQueryListResponse lists the saved queries of an entity.
type SavedQueryListResponse struct {
	Items []SavedQueryItem `json:"items"`
}

// SavedQueryItem describes one saved query. Count is set only when counted.
type SavedQueryItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
}

func inputsFromRequest(req BasicSearchRequest) builder.Inputs {
	in := make(builder.Inputs, len(req.Inputs)+1)
	for k, v := range req.Inputs {
		in[k] = v
	}
	if req.MineOnly {
		in[schema.MineOnlyInput] = strconv.FormatBool(true)
	} else {
		delete(in, schema.MineOnlyInput)
	}
	return in
}

func predicatesFromRequest(rows []PredicateRequest) ([]builder.Predicate, error) {
	out := make([]builder.Predicate, 0, len(rows))
	for i, row := range rows {
		if row.Field == "" {
			return nil, fmt.Errorf("predicates[%d].field is required", i)
		}
		join := criteria.Join(strings.ToUpper(row.Join))
		if join != "" && !join.IsValid() {
			return nil, fmt.Errorf("predicates[%d].join must be AND or OR, got %q", i, row.Join)
		}
		v, err := valueFromRequest(row.Field, row.Value)
		if err != nil {
			return nil, fmt.Errorf("predicates[%d].value: %w", i, err)
		}
		out = append(out, builder.Predicate{
			Join:  join,
			Field: row.Field,
			Op:    criteria.Op(strings.ToLower(row.Op)),
			Value: v,
		})
	}
	return out, nil
}

// valueFromRequest decodes a JSON predicate value for the named field.
// Unknown field names decode as plain strings and are rejected later.
func valueFromRequest(name string, raw json.RawMessage) (criteria.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return criteria.Value{}, fmt.Errorf("value is required")
	}
	id, _ := field.Parse(name)

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return criteria.Value{}, err
		}
		if id.IsValid() && id.FieldType() == field.Date {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				return criteria.Value{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}
			return criteria.Date(d), nil
		}
		return criteria.String(s), nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return criteria.Value{}, err
		}
		set := make([]string, 0, len(items))
		for _, it := range items {
			s, err := setItem(it)
			if err != nil {
				return criteria.Value{}, err
			}
			set = append(set, s)
		}
		return criteria.Set(set...), nil

	case '{':
		var r dateRangeRequest
		if err := json.Unmarshal(raw, &r); err != nil {
			return criteria.Value{}, err
		}
		from, err := time.Parse(dateLayout, r.From)
		if err != nil {
			return criteria.Value{}, fmt.Errorf("from must be YYYY-MM-DD: %w", err)
		}
		to, err := time.Parse(dateLayout, r.To)
		if err != nil {
			return criteria.Value{}, fmt.Errorf("to must be YYYY-MM-DD: %w", err)
		}
		if from.After(to) {
			return criteria.Value{}, fmt.Errorf("from %s is after to %s", r.From, r.To)
		}
		return criteria.DateRange(from, to), nil

	default:
		n, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return criteria.Value{}, fmt.Errorf("number must be an integer: %s", raw)
		}
		return criteria.Number(n), nil
	}
}

func setItem(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	n, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return "", fmt.Errorf("set items must be strings or integers: %s", raw)
	}
	return strconv.FormatInt(n, 10), nil
}

func searchResponse(p result.Page, offset, limit int) SearchResponse {
	items := make([]RecordItem, len(p.Records))
	for i := range p.Records {
		rec := &p.Records[i]
		items[i] = RecordItem{ID: rec.ID(), Fields: rec.Fields()}
	}
	return SearchResponse{
		CriteriaID: p.CriteriaID,
		Total:      p.Total,
		Offset:     offset,
		Limit:      limit,
		Items:      items,
	}
}

func savedQueryItems(sums []searchuc.QuerySummary) []SavedQueryItem {
	items := make([]SavedQueryItem, len(sums))
	for i, s := range sums {
		items[i] = SavedQueryItem{ID: s.ID, Name: s.Name, Label: s.Label}
		if s.Counted {
			n := s.Count
			items[i].Count = &n
		}
	}
	return items
}
