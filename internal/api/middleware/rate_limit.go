package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"

	"projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/config"
)

type RateLimiter struct {
	store  *sync.Map // map[string]*Bucket
	limits map[string]int
	now    func() time.Time
}

type Bucket struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	// We need to know when it was last accessed to clean it up
	lastAccess time.Time
}

// Limit classes, each a per-minute budget per caller.
const (
	LimitAuth    = "auth"
	LimitGraphQL = "graphql"
)

const defaultLimit = 100

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		store: &sync.Map{},
		limits: map[string]int{
			LimitAuth:    cfg.AuthPerMinute,
			LimitGraphQL: cfg.GraphQLPerMinute,
		},
		now: time.Now,
	}
}

// Run evicts idle buckets until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict(10 * time.Minute)
		}
	}
}

func (rl *RateLimiter) evict(idle time.Duration) {
	now := rl.now()
	rl.store.Range(func(key, value interface{}) bool {
		bucket := value.(*Bucket)
		bucket.mu.Lock()
		if now.Sub(bucket.lastAccess) > idle {
			rl.store.Delete(key)
		}
		bucket.mu.Unlock()
		return true
	})
}

// Allow spends one token from key's bucket, which holds limit tokens and refills at limit
// per minute.
func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := rl.now()

	val, _ := rl.store.LoadOrStore(key, &Bucket{
		limiter:    rate.NewLimiter(rate.Limit(float64(limit)/60.0), limit),
		lastAccess: now,
	})

	bucket := val.(*Bucket)
	bucket.mu.Lock()
	bucket.lastAccess = now
	bucket.mu.Unlock()

	return bucket.limiter.AllowN(now, 1)
}

// Limit keys authenticated callers by user and everyone else by client IP. It must run after
// AuthMiddleware.Identify for the user key to apply.
func (rl *RateLimiter) Limit(limitType string) func(http.HandlerFunc) http.HandlerFunc {
	limit, ok := rl.limits[limitType]
	if !ok || limit <= 0 {
		limit = defaultLimit
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := limitType + ":ip:" + clientIP(r)
			if identity := auth.FromContext(r.Context()); identity.IsAuthenticated() {
				key = limitType + ":user:" + identity.UserID
			}

			if !rl.Allow(key, limit) {
				hlog.FromRequest(r).Warn().Str("key", key).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", "60")
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}

			next(w, r)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
