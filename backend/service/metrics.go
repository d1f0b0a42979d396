package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts calculator activity on a private registry
type Metrics struct {
	registry      *prometheus.Registry
	calculations  *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	normalized    *prometheus.CounterVec
	activeSession prometheus.GaugeFunc
}

// NewMetrics registers the calculator collectors. sessions may be nil.
func NewMetrics(sessions *SessionStore) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "denklem",
			Name:      "deadline_calculations_total",
			Help:      "Deadline calculations by table key and validity.",
		}, []string{"table_key", "valid"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "denklem",
			Name:      "deadline_fallbacks_total",
			Help:      "Calculations that used the fallback key or the default week pair.",
		}, []string{"kind"}),
		normalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "denklem",
			Name:      "amount_normalizations_total",
			Help:      "Amount normalizations by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.calculations, m.fallbacks, m.normalized)

	if sessions != nil {
		m.activeSession = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "denklem",
			Name:      "sessions_active",
			Help:      "Calculation sessions held in memory.",
		}, func() float64 { return float64(sessions.Count()) })
		m.registry.MustRegister(m.activeSession)
	}
	return m
}

// ObserveCalculation records one calculation result
func (m *Metrics) ObserveCalculation(tableKey string, valid, fallbackKey, defaultApplied bool) {
	if m == nil {
		return
	}
	v := "false"
	if valid {
		v = "true"
	}
	m.calculations.WithLabelValues(tableKey, v).Inc()
	if fallbackKey {
		m.fallbacks.WithLabelValues("category").Inc()
	}
	if defaultApplied {
		m.fallbacks.WithLabelValues("table_entry").Inc()
	}
}

// ObserveNormalization records whether a normalization changed the text
func (m *Metrics) ObserveNormalization(changed bool) {
	if m == nil {
		return
	}
	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	m.normalized.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
