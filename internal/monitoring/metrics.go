package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Decision metrics
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trail_bot_decisions_total",
			Help: "Total number of trailing decisions by outcome",
		},
		[]string{"symbol", "instruction"},
	)

	stopMovesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trail_bot_stop_moves_total",
			Help: "Total number of successful stop-loss modifications",
		},
		[]string{"symbol", "side"},
	)

	// Position metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trail_bot_current_price",
			Help: "Current price of the trailed symbol",
		},
		[]string{"symbol"},
	)

	currentStop = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trail_bot_stop_price",
			Help: "Current stop-loss price of the trailed position",
		},
		[]string{"symbol"},
	)

	unrealizedProfit = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trail_bot_unrealized_profit",
			Help: "Gross unrealized profit of the trailed position",
		},
		[]string{"symbol"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trail_bot_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(stopMovesTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(currentStop)
	prometheus.MustRegister(unrealizedProfit)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordDecision records one engine decision
func RecordDecision(symbol, instruction string) {
	decisionsTotal.WithLabelValues(symbol, instruction).Inc()
}

// RecordStopMove records a successful stop-loss modification
func RecordStopMove(symbol, side string) {
	stopMovesTotal.WithLabelValues(symbol, side).Inc()
}

// UpdatePosition updates the per-cycle position gauges
func UpdatePosition(symbol string, price, stop, profit float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
	currentStop.WithLabelValues(symbol).Set(stop)
	unrealizedProfit.WithLabelValues(symbol).Set(profit)
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
