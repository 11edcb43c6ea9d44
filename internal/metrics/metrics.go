package metrics

import (
	"net/http"

	"rocketshoes-cart/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CartMetrics counts cart mutations by operation and outcome.
type CartMetrics struct {
	Mutations *prometheus.CounterVec
	CartUnits prometheus.Histogram
	registry  *prometheus.Registry
}

func NewCartMetrics(service string) *CartMetrics {
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rocketshoes",
		Subsystem: service,
		Name:      "cart_mutations_total",
		Help:      "Cart mutations by operation and outcome.",
	}, []string{"op", "outcome"})

	units := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rocketshoes",
		Subsystem: service,
		Name:      "cart_units",
		Help:      "Units in a cart after each committed mutation.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(mutations, units, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &CartMetrics{Mutations: mutations, CartUnits: units, registry: reg}
}

func (m *CartMetrics) ObserveMutation(op, outcome string) {
	m.Mutations.WithLabelValues(op, outcome).Inc()
}

// ObserveCart records the size of a cart after a commit.
func (m *CartMetrics) ObserveCart(c domain.Cart) {
	m.CartUnits.Observe(float64(c.Units()))
}

// Handler serves the metrics registered on m.
func (m *CartMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
