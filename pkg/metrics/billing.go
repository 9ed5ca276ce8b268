package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BillingMetrics counts ledger writes and billing failures.
type BillingMetrics struct {
	transactions *prometheus.CounterVec
	charityCents prometheus.Counter
	failures     *prometheus.CounterVec
}

// NewBillingMetrics registers the billing collectors on the provided registerer.
// A nil registerer yields a no-op value.
func NewBillingMetrics(reg prometheus.Registerer) *BillingMetrics {
	if reg == nil {
		return &BillingMetrics{}
	}
	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdflex_transactions_total",
		Help: "Transactions recorded in the ledger.",
	}, []string{"service"})
	charityCents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pdflex_charity_cents_total",
		Help: "Charity cents earmarked by recorded transactions.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdflex_billing_failures_total",
		Help: "Charges that failed to reach the ledger.",
	}, []string{"service"})
	reg.MustRegister(transactions, charityCents, failures)
	return &BillingMetrics{
		transactions: transactions,
		charityCents: charityCents,
		failures:     failures,
	}
}

// RecordCharge counts one successful ledger write.
func (b *BillingMetrics) RecordCharge(service string, charityCents int64) {
	if b == nil || b.transactions == nil {
		return
	}
	b.transactions.WithLabelValues(normalizeLabel(service)).Inc()
	if charityCents > 0 {
		b.charityCents.Add(float64(charityCents))
	}
}

// IncFailure counts a charge that could not be written.
func (b *BillingMetrics) IncFailure(service string) {
	if b == nil || b.failures == nil {
		return
	}
	b.failures.WithLabelValues(normalizeLabel(service)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
