package kit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type addReq struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

func decodeBody(body string) (addReq, error) {
	var req addReq
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSON(httptest.NewRecorder(), r, &req)
	return req, err
}

func TestDecodeJSON(t *testing.T) {
	req, err := decodeBody(`{"product_id": 7}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ProductID != 7 {
		t.Fatalf("expected 7, got %d", req.ProductID)
	}

	for _, body := range []string{`{"product_id": 1, "qty": 2}`, `{"product_id": 1}{}`, `not json`} {
		if _, err := decodeBody(body); !errors.Is(err, ErrBadJSON) {
			t.Fatalf("%s: expected ErrBadJSON, got %v", body, err)
		}
	}

	_, err = decodeBody(`{"product_id": 0}`)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["product_id"] != "is required" {
		t.Fatalf("unexpected fields: %v", verr.Fields)
	}

	_, err = decodeBody(`{"product_id": -3}`)
	if !errors.As(err, &verr) || verr.Fields["product_id"] != "must be at least 1" {
		t.Fatalf("unexpected result for negative id: %v", err)
	}
}

func TestWriteDecodeError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	WriteDecodeError(w, r, &ValidationError{Fields: map[string]string{"product_id": "is required"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation failed" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]any{"f": func() {}})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	if hit("10.0.0.1") != 200 || hit("10.0.0.1") != 200 {
		t.Fatalf("first two requests must pass")
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := hit("10.0.0.2"); code != 200 {
		t.Fatalf("other ip must pass, got %d", code)
	}

	now = now.Add(time.Minute + time.Second)
	if code := hit("10.0.0.1"); code != 200 {
		t.Fatalf("expected 200 after window, got %d", code)
	}
}

func TestIPRateLimiterDisabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	l := NewIPRateLimiter(0, time.Minute)

	h := l.Middleware(next)
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestMetricsAuth(t *testing.T) {
	h := MetricsAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tc := range []struct {
		authz string
		want  int
	}{
		{"", http.StatusForbidden},
		{"Bearer wrong", http.StatusForbidden},
		{"secret", http.StatusForbidden},
		{"Bearer secret", http.StatusOK},
	} {
		r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if tc.authz != "" {
			r.Header.Set("Authorization", tc.authz)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != tc.want {
			t.Fatalf("authz %q: expected %d, got %d", tc.authz, tc.want, w.Code)
		}
	}

	locked := MetricsAuth("")(http.NotFoundHandler())
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	locked.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("empty token must lock the endpoint, got %d", w.Code)
	}
}

func TestChiRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = ChiRoutePattern(r)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))
	if got != "/products/{id}" {
		t.Fatalf("expected route pattern, got %q", got)
	}

	if p := ChiRoutePattern(httptest.NewRequest(http.MethodGet, "/raw", nil)); p != "/raw" {
		t.Fatalf("expected raw path outside chi, got %q", p)
	}
}

func TestNewRouter(t *testing.T) {
	var order []string
	mark := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "extra")
			next.ServeHTTP(w, r)
		})
	}

	r := NewRouter(RouterDeps{
		Service:        "test",
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	}, mark)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		if chimw.GetReqID(r.Context()) == "" {
			t.Errorf("request id missing")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if strings.Join(order, ",") != "extra,handler" {
		t.Fatalf("unexpected middleware order: %v", order)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer scrape")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `http_requests_total{method="GET",path="/ping",service="test",status="204"} 1`) {
		t.Fatalf("request metric missing:\n%s", w.Body.String())
	}
}

func TestNewRouterWithoutRegistry(t *testing.T) {
	r := NewRouter(RouterDeps{MetricsEnabled: true})
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected /metrics to be absent, got %d", w.Code)
	}
}
