package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storeratings/internal/auth"
	"storeratings/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

const bearerPrefix = "Bearer "

// authenticate verifies the bearer token and attaches the asserted identity
// to the request context. Missing, malformed, or expired tokens end the
// request with 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		identity, err := s.tokens.Verify(token)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "Token expired"
			}
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole restricts a route group to the given roles. The role embedded
// in the verified token is authoritative for the token's lifetime; there is
// no directory round-trip.
func (s *Server) requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFrom(r.Context())
			if !ok {
				s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient role for this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// identityFrom extracts the verified identity attached by authenticate.
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(auth.Identity)
	return identity, ok
}
