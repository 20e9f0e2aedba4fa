package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "projecthub/internal/api/context"
	"projecthub/internal/api/handlers"
	"projecthub/internal/api/middleware"
	"projecthub/internal/pkg/errors"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	GraphQLHandler *handlers.GraphQLHandler
	InviteHandler  *handlers.InviteHandler
	HealthHandler  *handlers.HealthHandler
	MetricsHandler *handlers.MetricsHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware
	limit := deps.RateLimiter.Limit

	// Operational endpoints
	router.GET("/health", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	// Authentication routes
	router.POST("/api/v1/auth/register",
		chain(deps.AuthHandler.Register, authMid.Identify, limit(middleware.LimitAuth)))
	router.POST("/api/v1/auth/login",
		chain(deps.AuthHandler.Login, authMid.Identify, limit(middleware.LimitAuth)))
	router.POST("/api/v1/auth/refresh",
		chain(deps.AuthHandler.Refresh, authMid.Identify, limit(middleware.LimitAuth)))
	router.GET("/api/v1/auth/me",
		chain(deps.AuthHandler.Me, authMid.Handle))

	// GraphQL; anonymous callers reach resolvers, which reject them where required
	router.POST("/graphql",
		chain(deps.GraphQLHandler.Serve, authMid.Identify, limit(middleware.LimitGraphQL)))
	router.GET("/graphql",
		chain(deps.GraphQLHandler.Serve, authMid.Identify, limit(middleware.LimitGraphQL)))

	// Invites
	router.GET("/api/v1/invites/:code/qr",
		chain(deps.InviteHandler.GetQRCode, authMid.Handle, limit(middleware.LimitGraphQL)))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Route not found", nil)
	})

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
