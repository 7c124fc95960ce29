// Package session carries the caller's tenant and identity explicitly
// through request handling.
package session

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/crmfilter/internal/domain"
)

// Session is the authenticated caller of one request.
type Session struct {
	tenantID  int64
	username  string
	projectID int64
}

// New validates and creates a Session. The tenant id is mandatory.
func New(tenantID int64, username string) (Session, error) {
	if tenantID <= 0 {
		return Session{}, fmt.Errorf("%w: tenant id %d", domain.ErrMissingTenant, tenantID)
	}
	return Session{tenantID: tenantID, username: username}, nil
}

// WithProject returns a copy of the session scoped to a current project.
func (s Session) WithProject(projectID int64) Session {
	s.projectID = projectID
	return s
}

// TenantID returns the account id every query is scoped to.
func (s Session) TenantID() int64 { return s.tenantID }

// Username returns the current user ("" for service principals).
func (s Session) Username() string { return s.username }

// ProjectID returns the current project (0 when none).
func (s Session) ProjectID() int64 { return s.projectID }

// IsValid reports whether the session carries a tenant.
func (s Session) IsValid() bool { return s.tenantID > 0 }

type ctxKey struct{}

// ContextWithSession stores a session in the context.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the session from the context.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
