package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	scanCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beampay_scan_cycles_total",
		Help: "Reconciliation scan cycles per chain",
	}, []string{"chain", "result"})

	ordersPaid = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beampay_orders_paid_total",
		Help: "Orders marked paid from on-chain events",
	}, []string{"chain"})

	attestationChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beampay_attestation_checks_total",
		Help: "Bridge status checks by resulting status",
	}, []string{"status"})

	settlements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beampay_settlements_total",
		Help: "Payment settlement submissions",
	}, []string{"result"})
)

func init() {
	registry.MustRegister(scanCycles, ordersPaid, attestationChecks, settlements)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func IncScanCycle(chain, result string) {
	scanCycles.WithLabelValues(chain, result).Inc()
}

func IncOrderPaid(chain string) {
	ordersPaid.WithLabelValues(chain).Inc()
}

func IncAttestationCheck(status string) {
	attestationChecks.WithLabelValues(status).Inc()
}

func IncSettlement(result string) {
	settlements.WithLabelValues(result).Inc()
}
