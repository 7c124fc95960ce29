package logger

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmfilter/internal/domain/session"
)

// WithSession annotates l with the session tenant, user and project.
func WithSession(l *zap.Logger, s session.Session) *zap.Logger {
	fields := []zap.Field{
		zap.Int64("account_id", s.TenantID()),
		zap.String("user", s.Username()),
	}
	if s.ProjectID() > 0 {
		fields = append(fields, zap.Int64("project_id", s.ProjectID()))
	}
	return l.With(fields...)
}
