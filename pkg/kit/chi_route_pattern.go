package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UnmatchedRoute is the path label for requests no route matched, so probes
// for random paths do not grow the label set.
const UnmatchedRoute = "unmatched"

// ChiRoutePattern returns the matched chi route pattern. Requests served
// outside a chi router fall back to the raw path.
func ChiRoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	if rp := rctx.RoutePattern(); rp != "" {
		return rp
	}
	return UnmatchedRoute
}
