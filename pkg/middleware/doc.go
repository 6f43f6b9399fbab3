// Package middleware provides HTTP middleware for the gateway: request ID
// propagation and rate limiting.
//
// # Middleware Components
//
// RequestID: tags every request with a UUID, echoed in the X-Request-ID
// response header and attached to the request context for logging.
//
//	router.Use(middleware.RequestID)
//
// RateLimitMiddleware: in-memory token bucket keyed by client IP
//
//	limiter := middleware.NewRateLimitMiddleware(nil)
//	router.Use(limiter.Handler)
//
// DistributedRateLimitMiddleware: Redis-backed counter, shared across
// gateway replicas. Fails open on Redis errors.
//
//	limiter := middleware.NewDistributedRateLimitMiddleware(redisClient, nil)
//	router.Use(limiter.Handler)
package middleware
