package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
)

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
}

func NewAuthMiddleware(tokenSvc *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Handle rejects requests without a valid bearer access token.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		token, ok := bearer(authHeader)
		if !ok {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}

		claims, err := m.tokenSvc.ValidateToken(token)
		if err != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := auth.WithIdentity(r.Context(), auth.IdentityFromClaims(claims))
		next(w, r.WithContext(ctx))
	}
}

// Identify attaches the caller's identity when a valid token is present and an anonymous
// identity otherwise. Resolvers decide what anonymous callers may do.
func (m *AuthMiddleware) Identify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var identity auth.Identity

		if token, ok := bearer(r.Header.Get("Authorization")); ok {
			claims, err := m.tokenSvc.ValidateToken(token)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("ignoring invalid token")
			} else {
				identity = auth.IdentityFromClaims(claims)
			}
		}

		next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
}

func bearer(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
