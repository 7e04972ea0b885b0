package middleware

import (
	"net/http"
	"strings"

	"github.com/unclebandit/hvac-backend/internal/auth"
	"github.com/unclebandit/hvac-backend/internal/logger"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the caller in the request context.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSONError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeJSONError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Log.WithField("path", r.URL.Path).Debug("rejected bearer token")
				writeJSONError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		if !p.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Access denied. Admin only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
