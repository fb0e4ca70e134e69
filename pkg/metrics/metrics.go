package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mining_chatbot",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mining_chatbot",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mining_chatbot",
		Name:      "verifications_total",
		Help:      "Verification attempts by method (token, otp, credentials) and result.",
	}, []string{"method", "result"})

	OTPIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mining_chatbot",
		Name:      "verification_artifacts_issued_total",
		Help:      "OTPs and tokens issued, by kind and trigger (register, resend).",
	}, []string{"kind", "trigger"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mining_chatbot",
		Name:      "llm_requests_total",
		Help:      "Questions relayed to the LLM by result.",
	}, []string{"result"})
)
