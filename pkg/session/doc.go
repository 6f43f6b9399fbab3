// Package session owns the current authenticated session: credential material
// (access token, refresh token, tenant id) and the resolved operator identity.
//
// # Ownership
//
// The Store is a process-wide singleton. Only the auth manager mutates it;
// every other component reads value snapshots or derived booleans. UI layers
// subscribe to change notifications instead of polling.
//
// # Persistence
//
// Credentials mirror to a Storage backend under the keys auth_token,
// refresh_token, and tenant_id. Setting an empty value deletes the persisted
// entry so the store never contains a stale stringified null. Backends:
//
//   - MemoryStorage: tests and ephemeral runs
//   - FileStorage: JSON file with atomic replace and an fsnotify watcher
//   - RedisStorage: shared credentials for multi-replica deployments
//
// The resolved User is intentionally not persisted; it is re-resolved from the
// identity endpoint on every initialize.
package session
