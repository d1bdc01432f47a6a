package di

import (
	"go.uber.org/zap"

	"lessons_backend/internal/platform/externalapi/stripecheckout"
	platformhttp "lessons_backend/internal/platform/http"
)

// NewCheckoutProvider creates a fully configured Stripe Checkout client with its own HTTP client.
func NewCheckoutProvider(cfg stripecheckout.Config, logger *zap.Logger) *stripecheckout.StripeCheckout {
	httpClient := platformhttp.NewHTTPClient(cfg.Timeout)
	return stripecheckout.NewStripeCheckout(cfg, httpClient, logger)
}
