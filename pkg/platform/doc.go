// Package platform is the typed HTTP client for the upstream order-management
// platform API: the identity endpoints (login, me, refresh) and the uniform
// per-entity CRUD surface.
//
// Every response failure is classified into the taxonomy the rest of the
// gateway acts on: authentication (401, never retried, flushes the query
// cache), authorization (403, handled silently by the guard), validation
// (400/422, surfaced verbatim), and transient (5xx or network, retried once
// by the query layer).
//
// The client reads its bearer token and tenant id through TokenSource and
// TenantSource callbacks so it always sees the live session without holding a
// reference to session state.
package platform
