package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"projecthub/internal/platform/metrics"
)

// Logging wraps the whole router: every request gets a request id, a logger carrying it,
// an access log line and a latency observation.
func Logging(logger zerolog.Logger, next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		metrics.APILatency.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(status)).Observe(duration.Seconds())

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)

	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	return hlog.NewHandler(logger)(h)
}

var knownRoutes = map[string]bool{
	"/graphql":              true,
	"/health":               true,
	"/metrics":              true,
	"/api/v1/auth/register": true,
	"/api/v1/auth/login":    true,
	"/api/v1/auth/refresh":  true,
	"/api/v1/auth/me":       true,
}

// routeLabel keeps metric cardinality bounded by collapsing per-invite and unknown paths.
func routeLabel(r *http.Request) string {
	path := r.URL.Path
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, "/api/v1/invites/") {
		return "/api/v1/invites/:code/qr"
	}
	return "other"
}
