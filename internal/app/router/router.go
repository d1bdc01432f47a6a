// Package router wires the HTTP routes of the service.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lessonhandler "lessons_backend/internal/feature/lessons/transport/handler"
	paymenthandler "lessons_backend/internal/feature/payments/transport/handler"
	userhandler "lessons_backend/internal/feature/users/transport/handler"
	"lessons_backend/internal/platform/http/handler"
	"lessons_backend/internal/platform/metrics"
)

// NewRouter builds the gin engine with logging, recovery, CORS and all routes.
// checkoutLimit guards the payment routes; nil disables it.
func NewRouter(logger *zap.Logger, checkoutLimit gin.HandlerFunc, users *userhandler.UserHandler,
	lessons *lessonhandler.LessonHandler, payments *paymenthandler.PaymentHandler) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	// Browser frontend on another origin
	r.Use(cors.Default())

	// Liveness
	r.GET("/", handler.Root)
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/metrics", metrics.Handler())

	r.GET("/users", users.List)
	r.GET("/users/:email/status", users.Status)
	r.POST("/users", users.Create)

	r.GET("/lessons", lessons.List)
	r.GET("/lessons/:id", lessons.Get)
	r.POST("/lessons", lessons.Create)
	r.PATCH("/lessons/:id", lessons.Update)
	r.DELETE("/lessons/:id", lessons.Delete)

	pay := r.Group("/")
	if checkoutLimit != nil {
		pay.Use(checkoutLimit)
	}
	{
		pay.POST("/create-checkout-session", payments.CreateCheckoutSession)
		pay.PATCH("/payment-success", payments.PaymentSuccess)
	}

	return r
}
