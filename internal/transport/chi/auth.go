package chi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kailas-cloud/crmfilter/internal/domain/session"
	"github.com/kailas-cloud/crmfilter/internal/logger"
)

// ProjectHeader selects the caller's current project.
const ProjectHeader = "X-Project-ID"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// SessionMiddleware resolves the Bearer API key to a principal session and
// stores it in the request context. The tenant always comes from the key,
// never from the request. Without principals every non-exempt request is rejected.
func SessionMiddleware(principals map[string]session.Session) func(http.Handler) http.Handler {
	sessions := make(map[string]session.Session, len(principals))
	for k, s := range principals {
		if k != "" && s.IsValid() {
			sessions[k] = s
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			sess, ok := sessions[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
				return
			}

			if raw := r.Header.Get(ProjectHeader); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					writeError(w, http.StatusBadRequest, codeValidationFailed,
						ProjectHeader+" must be a positive integer")
					return
				}
				sess = sess.WithProject(id)
			}

			ctx := session.ContextWithSession(r.Context(), sess)
			ctx = logger.ContextWithLogger(ctx, logger.WithSession(logger.FromContext(ctx), sess))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
