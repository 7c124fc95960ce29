package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmfilter/internal/domain"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/request"
	"github.com/kailas-cloud/crmfilter/internal/domain/search/result"
	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/usecase/builder"
	healthuc "github.com/kailas-cloud/crmfilter/internal/usecase/health"
	searchuc "github.com/kailas-cloud/crmfilter/internal/usecase/search"
)

// SearchService runs searches on behalf of a session.
type SearchService interface {
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
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search API.
type Server struct {
	search        SearchService
	health        HealthChecker
	logger        *zap.Logger
	countQueries  bool
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidTemplateHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrMissingTenant, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
	}
	return s
}

// WithSavedQueryCounts makes saved query listings include result counts
// unless the request sets ?counts explicitly.
func (s *Server) WithSavedQueryCounts(on bool) *Server {
	s.countQueries = on
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/entities/{entity}", func(r chi.Router) {
		r.Get("/saved-queries", s.ListSavedQueries)
		r.Post("/search/basic", s.SearchBasic)
		r.Post("/search/saved/{query}", s.SearchSaved)
		r.Post("/search/advanced", s.SearchAdvanced)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
}

// ListSavedQueries handles GET /entities/{entity}/saved-queries.
func (s *Server) ListSavedQueries(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	counts := s.countQueries
	if raw := r.URL.Query().Get("counts"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "counts must be a boolean")
			return
		}
		counts = v
	}

	sums, err := s.search.SavedQueries(r.Context(), sess, entityParam(r), counts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SavedQueryListResponse{Items: savedQueryItems(sums)})
}

// SearchBasic handles POST /entities/{entity}/search/basic.
func (s *Server) SearchBasic(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req BasicSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	page, ok := pageFromRequest(w, req.PageRequest)
	if !ok {
		return
	}

	res, err := s.search.Basic(r.Context(), sess, entityParam(r), inputsFromRequest(req), page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res, page.Offset(), page.Limit()))
}

// SearchSaved handles POST /entities/{entity}/search/saved/{query}.
func (s *Server) SearchSaved(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req SavedSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	page, ok := pageFromRequest(w, req.PageRequest)
	if !ok {
		return
	}

	res, err := s.search.Saved(r.Context(), sess, entityParam(r), chi.URLParam(r, "query"), page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res, page.Offset(), page.Limit()))
}

// SearchAdvanced handles POST /entities/{entity}/search/advanced.
func (s *Server) SearchAdvanced(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req AdvancedSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	page, ok := pageFromRequest(w, req.PageRequest)
	if !ok {
		return
	}
	preds, err := predicatesFromRequest(req.Predicates)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Advanced(r.Context(), sess, entityParam(r), preds, page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res, page.Offset(), page.Limit()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.IsValid() {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing session")
		return session.Session{}, false
	}
	return sess, true
}

func entityParam(r *http.Request) schema.Entity {
	return schema.Entity(chi.URLParam(r, "entity"))
}

// decodeBody decodes an optional JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func pageFromRequest(w http.ResponseWriter, p PageRequest) (request.Page, bool) {
	page, err := request.NewPage(p.Offset, p.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return request.Page{}, false
	}
	return page, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidTemplate,
		domain.ErrMissingTenant,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidTemplateHandler reports the offending query and field, which the caller supplied.
func invalidTemplateHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidTemplate) {
		return false
	}
	var ite *domain.InvalidTemplateError
	if errors.As(err, &ite) {
		msg = ite.Error()
	}
	writeError(w, http.StatusBadRequest, codeInvalidTemplate, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
