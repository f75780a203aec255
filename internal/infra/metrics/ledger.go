package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		creditsIssuedTotal,
		consumptionsTotal,
		monthlyRefillsTotal,
		creditsBySKU,
		ledgerOutstanding,
	)
}

var (
	creditsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credits_issued_total",
			Help: "Credit grants appended to the ledger, by SKU and paid flag.",
		},
		[]string{"sku", "paid"},
	)

	consumptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_consumptions_total",
			Help: "Consumption attempts by outcome (recorded/insufficient_balance/expired/not_found/conflict/error).",
		},
		[]string{"outcome"},
	)

	monthlyRefillsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_monthly_refills_total",
			Help: "Monthly free credits issued by the refill worker.",
		},
	)

	creditsBySKU = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "credits_total",
			Help: "Current number of issued credits by SKU.",
		},
		[]string{"sku"},
	)

	ledgerOutstanding = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_outstanding_quantity",
			Help: "Total granted minus total consumed quantity across the ledger.",
		},
	)
)

func IncCreditIssued(sku string, paid bool) {
	creditsIssuedTotal.WithLabelValues(sku, strconv.FormatBool(paid)).Inc()
}

func IncConsumption(outcome string) {
	consumptionsTotal.WithLabelValues(outcome).Inc()
}

func AddMonthlyRefills(count int) {
	monthlyRefillsTotal.Add(float64(count))
}

func SetCreditsBySKU(counts map[string]int) {
	for sku, count := range counts {
		creditsBySKU.WithLabelValues(sku).Set(float64(count))
	}
}

func SetLedgerOutstanding(quantity float64) {
	ledgerOutstanding.Set(quantity)
}
