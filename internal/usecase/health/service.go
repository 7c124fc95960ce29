package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	indexes IndexChecker
	names   []string
}

// New creates a Service. indexes can be nil, which skips index checks.
func New(db DBPinger, indexes IndexChecker, indexNames ...string) *Service {
	return &Service{db: db, indexes: indexes, names: indexNames}
}

// Check runs health checks against all components.
// Index checks are reported as "index:<name>".
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1+len(s.names))

	dbUp := s.db.Ping(ctx) == nil
	checks["database"] = result(dbUp)

	if s.indexes != nil {
		for _, name := range s.names {
			ok := false
			if dbUp {
				exists, err := s.indexes.IndexExists(ctx, name)
				ok = err == nil && exists
			}
			checks["index:"+name] = result(ok)
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
