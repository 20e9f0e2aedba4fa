package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/config"
)

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(auth.FromContext(r.Context()))
}

func TestHandleRequiresBearerToken(t *testing.T) {
	tokens := newTokenService()
	mw := NewAuthMiddleware(tokens)
	access, err := tokens.GenerateAccessToken("usr_1", "alice", "alice@example.com")
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken("usr_1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"access token", "Bearer " + access, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			mw.Handle(echoIdentity)(rr, req)
			require.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestIdentifyFallsBackToAnonymous(t *testing.T) {
	tokens := newTokenService()
	mw := NewAuthMiddleware(tokens)
	access, err := tokens.GenerateAccessToken("usr_1", "alice", "alice@example.com")
	require.NoError(t, err)

	for header, want := range map[string]auth.Identity{
		"":                 {},
		"Bearer nonsense":  {},
		"Bearer " + access: {UserID: "usr_1", Username: "alice", Email: "alice@example.com"},
	} {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		mw.Identify(echoIdentity)(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got auth.Identity
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Equal(t, want, got)
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{AuthPerMinute: 2})
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("k", 2))
	require.True(t, rl.Allow("k", 2))
	require.False(t, rl.Allow("k", 2))

	now = now.Add(30 * time.Second)
	require.True(t, rl.Allow("k", 2))
	require.False(t, rl.Allow("k", 2))

	now = now.Add(time.Hour)
	rl.evict(10 * time.Minute)
	_, ok := rl.store.Load("k")
	require.False(t, ok)
}

func TestLimitKeysByUserOrIP(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{AuthPerMinute: 1})
	ok := func(w http.ResponseWriter, r *http.Request) {}
	handler := rl.Limit(LimitAuth)(ok)

	call := func(remote string, identity auth.Identity) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = remote
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
		rr := httptest.NewRecorder()
		handler(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, call("10.0.0.1:1234", auth.Identity{}))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5678", auth.Identity{}))
	require.Equal(t, http.StatusOK, call("10.0.0.2:1234", auth.Identity{}))

	alice := auth.Identity{UserID: "usr_1"}
	require.Equal(t, http.StatusOK, call("10.0.0.1:1234", alice))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.3:1234", alice))
}

func TestLoggingSetsRequestID(t *testing.T) {
	h := Logging(zerolog.Nop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
