package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dskvich/doc-reviewer/pkg/api/response"
	"github.com/dskvich/doc-reviewer/pkg/auth"
	"github.com/dskvich/doc-reviewer/pkg/domain"
)

type Authenticator interface {
	Enabled() bool
	IsAuthorized(userID string) bool
}

type AuthMetrics interface {
	RecordUnauthorized(reason string)
}

// Authorize lets through only principals on the allowlist. It is a no-op
// when no allowlist is configured.
func Authorize(a Authenticator, metrics AuthMetrics) func(http.Handler) http.Handler {
	writer := response.JSONResponseWriter{}

	return func(next http.Handler) http.Handler {
		if !a.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.PrincipalFromRequest(r)
			if err != nil {
				reason := "malformed_principal"
				if errors.Is(err, domain.ErrNotAuthenticated) {
					reason = "no_principal"
				}
				record(metrics, reason)
				writer.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			if !a.IsAuthorized(principal.UserID) {
				slog.WarnContext(r.Context(), "unauthorized access attempt", "user_id", principal.UserID, "user", principal.UserDetails)
				record(metrics, "not_listed")
				writer.WriteErrorResponse(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func record(metrics AuthMetrics, reason string) {
	if metrics != nil {
		metrics.RecordUnauthorized(reason)
	}
}
