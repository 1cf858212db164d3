package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floodassist_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "floodassist_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	questionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floodassist_questions_total",
			Help: "Questions answered, by resolution outcome.",
		},
		[]string{"outcome"},
	)

	agentDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "floodassist_agent_duration_seconds",
			Help:    "Latency of delegated answering-service calls.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		questionsTotal,
		agentDurationSeconds,
	)
}

// CountQuestion records a resolved question by outcome (canned, agent, error).
func CountQuestion(outcome string) {
	questionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveAgentDuration records the wall time of one delegated agent call.
func ObserveAgentDuration(seconds float64) {
	agentDurationSeconds.Observe(seconds)
}
