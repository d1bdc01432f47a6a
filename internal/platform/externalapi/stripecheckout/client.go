package stripecheckout

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/checkout/session"
	"go.uber.org/zap"

	"lessons_backend/internal/feature/payments/domain/entity"
	"lessons_backend/internal/feature/payments/usecase"
	"lessons_backend/internal/shared/ratelimiter"
)

// Metadata keys attached to every checkout session.
const (
	metaUserID = "userId"
	metaEmail  = "email"
)

// ErrMissingSecretKey is returned when no Stripe secret key is configured.
var ErrMissingSecretKey = errors.New("stripe secret key is not configured")

// StripeCheckout is a CheckoutProvider backed by Stripe Checkout sessions.
type StripeCheckout struct {
	cfg      Config
	sessions session.Client
	limiter  ratelimiter.Limiter
}

// Compile-time check to ensure StripeCheckout implements CheckoutProvider.
var _ usecase.CheckoutProvider = (*StripeCheckout)(nil)

// NewStripeCheckout builds a client with its own backend so no package-level Stripe state is touched.
func NewStripeCheckout(cfg Config, httpClient *http.Client, logger *zap.Logger) *StripeCheckout {
	bc := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     logger.Sugar(),
	}
	if cfg.APIURL != "" {
		bc.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)

	return &StripeCheckout{
		cfg:      cfg,
		sessions: session.Client{B: backend, Key: cfg.SecretKey},
		limiter:  ratelimiter.NewRateLimiter(cfg.RateLimit, time.Second),
	}
}

// CreateSession opens a one-item payment-mode checkout for the premium upgrade.
func (s *StripeCheckout) CreateSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(req.Email),
		SuccessURL:    stripe.String(s.cfg.SuccessURL()),
		CancelURL:     stripe.String(s.cfg.CancelURL()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.cfg.Currency),
					UnitAmount: stripe.Int64(s.cfg.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(s.cfg.ProductName),
						Description: stripe.String(s.cfg.ProductDescription),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Context = ctx
	params.AddMetadata(metaUserID, req.UserID)
	params.AddMetadata(metaEmail, req.Email)

	cs, err := s.sessions.New(params)
	if err != nil {
		return nil, err
	}
	return toEntity(cs), nil
}

// RetrieveSession fetches the current state of a checkout session.
func (s *StripeCheckout) RetrieveSession(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	cs, err := s.sessions.Get(sessionID, params)
	if err != nil {
		return nil, err
	}
	return toEntity(cs), nil
}

func toEntity(cs *stripe.CheckoutSession) *entity.CheckoutSession {
	out := &entity.CheckoutSession{
		ID:            cs.ID,
		URL:           cs.URL,
		PaymentStatus: string(cs.PaymentStatus),
	}
	if cs.PaymentIntent != nil {
		out.TransactionID = cs.PaymentIntent.ID
	}
	if cs.Metadata != nil {
		out.UserID = cs.Metadata[metaUserID]
		out.Email = cs.Metadata[metaEmail]
	}
	return out
}
