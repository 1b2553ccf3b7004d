package storefront

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/cart"
	"MiniShop/internal/theme"
)

// StateMetrics mirrors the cart and theme stores into Prometheus.
type StateMetrics struct {
	CartItems    prometheus.Gauge
	CartLines    prometheus.Gauge
	CartSubtotal prometheus.Gauge
	ThemeDark    prometheus.Gauge
	CartOps      *prometheus.CounterVec
}

func NewStateMetrics(reg prometheus.Registerer) *StateMetrics {
	m := &StateMetrics{
		CartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_items",
			Help: "Sum of quantities in the cart",
		}),
		CartLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_lines",
			Help: "Distinct products in the cart",
		}),
		CartSubtotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_subtotal",
			Help: "Cart subtotal",
		}),
		ThemeDark: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_theme_dark",
			Help: "1 when the dark theme is active",
		}),
		CartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Cart operations by kind and whether they changed state",
		}, []string{"op", "changed"}),
	}

	reg.MustRegister(m.CartItems, m.CartLines, m.CartSubtotal, m.ThemeDark, m.CartOps)
	return m
}

func (m *StateMetrics) ObserveCart(ev cart.Event) {
	m.CartOps.WithLabelValues(string(ev.Op), strconv.FormatBool(ev.Changed)).Inc()
	m.setCart(ev.Snapshot)
}

func (m *StateMetrics) setCart(snap cart.Snapshot) {
	m.CartItems.Set(float64(snap.TotalItems))
	m.CartLines.Set(float64(len(snap.Lines)))
	m.CartSubtotal.Set(snap.Subtotal.InexactFloat64())
}

func (m *StateMetrics) ObserveTheme(ev theme.Event) {
	if ev.Mode == theme.Dark {
		m.ThemeDark.Set(1)
		return
	}
	m.ThemeDark.Set(0)
}

func (s *Server) observe(log *zap.Logger, reg *prometheus.Registry) {
	if log != nil {
		s.Cart.Subscribe(func(ev cart.Event) {
			log.Debug("cart event",
				zap.String("op", string(ev.Op)),
				zap.Int("product_id", ev.ProductID),
				zap.Bool("changed", ev.Changed),
				zap.Int("total_items", ev.Snapshot.TotalItems),
				zap.String("subtotal", ev.Snapshot.Subtotal.StringFixed(2)),
			)
		})
		s.Theme.Subscribe(func(ev theme.Event) {
			log.Debug("theme event", zap.String("mode", string(ev.Mode)))
		})
	}

	if reg == nil {
		return
	}
	m := NewStateMetrics(reg)
	m.setCart(s.Cart.Snapshot())
	m.ObserveTheme(theme.Event{Mode: s.Theme.Mode()})
	s.Cart.Subscribe(m.ObserveCart)
	s.Theme.Subscribe(m.ObserveTheme)
}
