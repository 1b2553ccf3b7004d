package catalog

import (
	"net/http"

	"MiniShop/pkg/kit"
)

// HTTPDeps is the catalog service's router configuration.
type HTTPDeps = kit.RouterDeps

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := kit.NewRouter(deps)
	r.Mount("/", s.Routes())
	return r
}
