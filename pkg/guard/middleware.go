package guard

import (
	"net/http"

	"github.com/platinummonkey/backoffice/pkg/contextkeys"
)

// Middleware wraps an HTTP handler with the guard chain: Allow serves the
// wrapped handler, Redirect answers 302 to the computed target.
func (c *Chain) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := c.Evaluate(r.Context(), r.URL.Path)

		switch decision.Action {
		case ActionRedirect:
			http.Redirect(w, r, decision.Target, http.StatusFound)
		default:
			ctx := r.Context()
			if route, ok := c.table.Lookup(r.URL.Path); ok {
				ctx = contextkeys.WithRoute(ctx, route)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

// RouteFromRequest extracts the matched guard route placed by Middleware
func RouteFromRequest(r *http.Request) (Route, bool) {
	route, ok := r.Context().Value(contextkeys.RouteKey).(Route)
	return route, ok
}
