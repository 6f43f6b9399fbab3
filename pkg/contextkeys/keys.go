// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//   import "github.com/platinummonkey/backoffice/pkg/contextkeys"
//   ctx = contextkeys.WithRequestID(ctx, requestID)
//   requestID := contextkeys.GetRequestID(ctx)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SessionKey contains the session snapshot for the current request
	// Set by: guard.Chain middleware (pkg/guard/middleware.go)
	// Required by: entity handlers, notification handlers
	// Type: session.Session
	SessionKey Key = "session"

	// RouteKey contains the matched guard route for the current request
	// Set by: guard.Chain middleware
	// Used by: handlers that need the declared route requirement
	// Type: guard.Route
	RouteKey Key = "guard_route"

	// RequestIDKey contains request ID string (UUID)
	// Set by: HTTP middleware, platform client
	// Used by: Logger, distributed tracing
	// Type: string
	RequestIDKey Key = "request_id"

	// UserIDKey contains user ID string
	// Set by: guard middleware after session resolution
	// Used by: Logger, user-scoped operations
	// Type: string
	UserIDKey Key = "user_id"

	// TenantIDKey contains the tenant identifier for the current session
	// Set by: guard middleware
	// Used by: Logger, tenant-scoped handlers
	// Type: string
	TenantIDKey Key = "tenant_id"

	// LoggerKey contains *observability.Logger
	// Set by: Observability middleware
	// Used by: Handlers that need structured logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"
)

// Helper functions for type-safe context operations

// WithSession adds a session snapshot to the context
func WithSession(ctx context.Context, sess interface{}) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// WithRoute adds the matched guard route to the context
func WithRoute(ctx context.Context, route interface{}) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserID adds user ID to the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithTenantID adds the tenant identifier to the context
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID retrieves user ID from context
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetTenantID retrieves the tenant identifier from context
func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(TenantIDKey).(string); ok {
		return tenantID
	}
	return ""
}
