// Package metrics exposes Prometheus instruments for ledger and registry
// operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "greenbond"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Settlement direction label values.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	// Ledger
	LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Total ledger operations by outcome",
	}, []string{"op", "result"})

	AvailableSupply = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "available_supply",
		Help:      "Bond units still available for purchase",
	})

	// Settlement
	SettlementVolume = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "settlement",
		Name:      "volume_total",
		Help:      "Settlement-asset units moved through committed operations",
	}, []string{"direction"})

	// Impact registry
	ImpactReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "impact",
		Name:      "reports_total",
		Help:      "Impact reports by lifecycle transition",
	}, []string{"state"})
)

// Observe counts one ledger operation.
func Observe(op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	LedgerOperations.WithLabelValues(op, result).Inc()
}
