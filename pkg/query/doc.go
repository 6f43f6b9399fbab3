// Package query is the single choke point for outbound platform calls. It
// caches responses by query key, coalesces concurrent equal-key fetches into
// one network call, applies the retry policy, and owns the global
// authentication-failure transition.
//
// # Freshness
//
// A successful result answers repeat fetches for 5 minutes without a network
// round-trip. Between 5 and 30 minutes the stale value answers immediately
// while a background refresh runs. Past 30 minutes the expirable LRU has
// evicted the entry and the fetch dispatches again.
//
// # Authentication failures
//
// When any call comes back 401 the client, as one transition under its lock:
// cancels every other in-flight call, purges the cache, and fires the
// navigate-to-login hook. A latch with a one-second cooldown turns a storm of
// simultaneous 401s into a single redirect. A generation counter keeps calls
// dispatched before the clear from repopulating the cache afterwards; callers
// must tolerate such calls resolving late with ErrSessionInvalidated.
//
// Failed fetches are not cached; pending state lives in the singleflight
// group rather than in entries.
package query
