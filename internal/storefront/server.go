package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniShop/internal/cart"
	"MiniShop/internal/catalogclient"
	"MiniShop/internal/query"
	"MiniShop/internal/theme"
	"MiniShop/pkg/kit"
)

const readyTimeout = 2 * time.Second

// Catalog is the product source the screens read through the query cache.
type Catalog interface {
	ListProducts(ctx context.Context, page catalogclient.Page) (catalogclient.ProductsPage, error)
	GetProduct(ctx context.Context, id int) (catalogclient.Product, error)
	Ping(ctx context.Context) error
}

// Pinger is an optional dependency probed by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Profile struct {
	Name     string
	Subtitle string
}

// Server renders the storefront screens. Cart and Theme are the only write
// targets and are touched exclusively through their operations.
type Server struct {
	Catalog Catalog
	Queries *query.Cache
	Cart    *cart.Store
	Theme   *theme.Store
	Profile Profile
	Log     *zap.Logger

	// Shared is the query cache's shared tier, nil when not configured.
	Shared Pinger
}

type readiness struct {
	Catalog     string `json:"catalog"`
	SharedCache string `json:"shared_cache,omitempty"`
}

type addItemReq struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

// readyz fails only on the catalog. The shared cache tier is optional: the
// query cache falls back to the catalog when it is down, so it is reported
// but does not make the service unready.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Catalog.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed: catalog", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
		return
	}

	status := readiness{Catalog: "ok"}
	if s.Shared != nil {
		status.SharedCache = "ok"
		if err := s.Shared.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz: shared cache down", zap.Error(err))
			}
			status.SharedCache = "down"
		}
	}
	kit.WriteJSON(w, http.StatusOK, status)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(r)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid pagination", nil)
		return
	}

	res := query.Fetch(r.Context(), s.Queries, query.ProductsKey(page),
		func(ctx context.Context) (catalogclient.ProductsPage, error) {
			return s.Catalog.ListProducts(ctx, page)
		})
	if !res.OK() {
		s.writeQueryError(w, r, res.Err, "error loading products")
		return
	}

	kit.WriteJSON(w, http.StatusOK, homeView(s.Theme.Mode(), res.Data))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid id", map[string]any{"id": chi.URLParam(r, "id")})
		return
	}

	res := s.fetchProduct(r.Context(), id)
	if !res.OK() {
		s.writeQueryError(w, r, res.Err, "error loading product")
		return
	}

	inCart := 0
	if l, ok := s.Cart.Line(id); ok {
		inCart = l.Quantity
	}
	kit.WriteJSON(w, http.StatusOK, detailView(s.Theme.Mode(), res.Data, inCart))
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, cartView(s.Theme.Mode(), s.Cart.Snapshot()))
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteDecodeError(w, r, err)
		return
	}

	res := s.fetchProduct(r.Context(), req.ProductID)
	if !res.OK() {
		s.writeQueryError(w, r, res.Err, "error loading product")
		return
	}

	p := res.Data
	s.Cart.Add(cart.Item{
		ID:        p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Thumbnail: p.Thumbnail,
	})
	s.getCart(w, r)
}

func (s *Server) incrementItem(w http.ResponseWriter, r *http.Request) {
	s.withLineID(w, r, s.Cart.Increment)
}

func (s *Server) decrementItem(w http.ResponseWriter, r *http.Request) {
	s.withLineID(w, r, s.Cart.Decrement)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	s.withLineID(w, r, s.Cart.Remove)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.Cart.Clear()
	s.getCart(w, r)
}

// withLineID parses the {id} path parameter, applies op and renders the
// cart. Unknown ids are no-ops and still render the cart.
func (s *Server) withLineID(w http.ResponseWriter, r *http.Request, op func(id int)) {
	id, ok := parseID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid id", map[string]any{"id": chi.URLParam(r, "id")})
		return
	}
	op(id)
	s.getCart(w, r)
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, themeView(s.Theme.Mode()))
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, themeView(s.Theme.Toggle()))
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	snap := s.Cart.Snapshot()
	kit.WriteJSON(w, http.StatusOK, ProfileView{
		Name:     s.Profile.Name,
		Subtitle: s.Profile.Subtitle,
		Theme:    themeView(s.Theme.Mode()),
		Cart: CartSummary{
			TotalItems: snap.TotalItems,
			Subtotal:   snap.Subtotal.StringFixed(2),
		},
	})
}

func (s *Server) fetchProduct(ctx context.Context, id int) query.Result[catalogclient.Product] {
	return query.Fetch(ctx, s.Queries, query.ProductKey(id),
		func(ctx context.Context) (catalogclient.Product, error) {
			return s.Catalog.GetProduct(ctx, id)
		})
}

// writeQueryError renders a failed catalog query as a visible error.
func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	details := map[string]any{"status": query.StatusError}

	switch {
	case errors.Is(err, catalogclient.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", details)
	case errors.Is(err, catalogclient.ErrUnavailable):
		if s.Log != nil {
			s.Log.Warn("catalog unavailable", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, msg, details)
	default:
		if s.Log != nil {
			s.Log.Error("catalog query failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusBadGateway, msg, details)
	}
}

func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parsePage(r *http.Request) (catalogclient.Page, bool) {
	var page catalogclient.Page
	q := r.URL.Query()

	for name, dst := range map[string]*int{"limit": &page.Limit, "skip": &page.Skip} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return catalogclient.Page{}, false
		}
		*dst = n
	}
	return page, true
}
