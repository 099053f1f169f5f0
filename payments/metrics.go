package payments

import "github.com/prometheus/client_golang/prometheus"

var (
	intentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_intents_total",
			Help: "Payment intent requests by outcome.",
		},
		[]string{"outcome"},
	)
	donationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_confirmations_total",
			Help: "Donation confirmations by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(intentsTotal, donationsTotal)
}
