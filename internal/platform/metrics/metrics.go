// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lessons"

var (
	// CheckoutSessionsCreated counts hosted checkout sessions opened for the premium upgrade.
	CheckoutSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_created_total",
		Help:      "Number of checkout sessions created.",
	})

	// PaymentConfirmations counts payment confirmations by outcome.
	PaymentConfirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_confirmations_total",
		Help:      "Payment confirmations by outcome (confirmed, already_processed, duplicate_charge, unpaid, upstream_error).",
	}, []string{"outcome"})

	// LessonCacheRequests counts lesson cache lookups by result (hit, miss).
	LessonCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lesson_cache_requests_total",
		Help:      "Lesson cache lookups by result.",
	}, []string{"result"})
)

// Handler serves the default Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
