// Package auth manages the session lifecycle on top of pkg/session: lazy
// initialization from persisted credentials, login, logout, token refresh,
// and the derived booleans (authenticated, super-admin, has-permission) the
// route guard consults.
//
// Initialize is safe to call from every navigation: it is idempotent, and a
// singleflight group collapses a burst of concurrent calls into one identity
// resolution. Failures never surface to the caller; they degrade the session
// to unauthenticated.
//
// Which role names count as super-admin is configuration (Config.AdminRoles),
// not code.
package auth
