package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devfolio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devfolio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devfolio", Name: "store_operations_total", Help: "Document store operations by collection, operation and outcome."},
		[]string{"collection", "op", "outcome"},
	)
	ContentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devfolio", Name: "content_mutations_total", Help: "Successful admin writes by collection and operation."},
		[]string{"collection", "op"},
	)
	ContactSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devfolio", Name: "contact_submissions_total", Help: "Public contact form submissions by outcome."},
		[]string{"outcome"},
	)
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devfolio", Name: "login_attempts_total", Help: "Admin login attempts by mode and outcome."},
		[]string{"mode", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(StoreOperations)
	reg.MustRegister(ContentMutations)
	reg.MustRegister(ContactSubmissions)
	reg.MustRegister(LoginAttempts)
}

// ObserveStore records one document store call.
func ObserveStore(collection, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOperations.WithLabelValues(collection, op, outcome).Inc()
}

// ObserveMutation records a successful admin write.
func ObserveMutation(collection, op string) {
	ContentMutations.WithLabelValues(collection, op).Inc()
}
