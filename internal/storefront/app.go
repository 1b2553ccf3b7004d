package storefront

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	CORSOrigins []string

	CartRateLimit  int
	CartRateWindow time.Duration
}

// NewHandler builds the storefront router and subscribes the state
// observers to s.Cart and s.Theme. Call it once per Server.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	s.observe(deps.Log, deps.Registry)

	r := kit.NewRouter(kit.RouterDeps{
		Log:            deps.Log,
		Service:        deps.Service,
		Registry:       deps.Registry,
		MetricsEnabled: deps.MetricsEnabled,
		MetricsToken:   deps.MetricsToken,
	}, corsHandler(deps.CORSOrigins))

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.readyz)

	r.Get("/products", s.listProducts)
	r.Get("/products/{id}", s.getProduct)

	r.Get("/cart", s.getCart)
	r.Group(func(cr chi.Router) {
		cr.Use(kit.NewIPRateLimiter(deps.CartRateLimit, deps.CartRateWindow).Middleware)

		cr.Post("/cart/items", s.addToCart)
		cr.Post("/cart/items/{id}/increment", s.incrementItem)
		cr.Post("/cart/items/{id}/decrement", s.decrementItem)
		cr.Delete("/cart/items/{id}", s.removeItem)
		cr.Delete("/cart", s.clearCart)
	})

	r.Get("/profile", s.getProfile)
	r.Get("/theme", s.getTheme)
	r.Post("/theme/toggle", s.toggleTheme)

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
