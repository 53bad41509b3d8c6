package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "misinfo_check_duration_seconds",
			Help:    "Verification request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	ClaimsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "misinfo_claims_processed_total",
			Help: "Total claims run through the verification pipeline",
		},
	)

	VerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misinfo_verdicts_total",
			Help: "Total verdicts produced by label",
		},
		[]string{"label"},
	)

	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misinfo_provider_errors_total",
			Help: "Total evidence provider failures by category",
		},
		[]string{"category"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misinfo_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)
)

func Init() {
	prometheus.MustRegister(CheckDuration)
	prometheus.MustRegister(ClaimsProcessed)
	prometheus.MustRegister(VerdictsTotal)
	prometheus.MustRegister(ProviderErrors)
	prometheus.MustRegister(LLMTokensUsed)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
