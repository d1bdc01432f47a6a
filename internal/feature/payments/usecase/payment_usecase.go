// Package usecase implements the premium upgrade payment flow.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"lessons_backend/internal/feature/payments/domain/entity"
	userdomain "lessons_backend/internal/feature/users/domain"
	userentity "lessons_backend/internal/feature/users/domain/entity"
	"lessons_backend/internal/platform/metrics"
)

// CheckoutProvider is the hosted checkout service.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform).
type CheckoutProvider interface {
	// CreateSession starts a checkout for the fixed premium product.
	CreateSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)

	// RetrieveSession fetches the current state of a checkout session.
	RetrieveSession(ctx context.Context, sessionID string) (*entity.CheckoutSession, error)
}

// PremiumRepository is the part of the user store the payment flow mutates.
type PremiumRepository interface {
	// FindByTransactionID returns userdomain.ErrUserNotFound when no user carries the transaction.
	FindByTransactionID(ctx context.Context, transactionID string) (*userentity.User, error)

	// FindByID returns userdomain.ErrUserNotFound when the user does not exist.
	FindByID(ctx context.Context, id string) (*userentity.User, error)

	// MarkPremium sets isPremium and the transaction id atomically.
	// It returns userdomain.ErrAlreadyUpgraded when the user or transaction was already used,
	// and userdomain.ErrUserNotFound when the user does not exist.
	MarkPremium(ctx context.Context, userID, transactionID string) error
}

// PaymentUsecase drives the Pending → Paid transition of a user.
type PaymentUsecase struct {
	provider CheckoutProvider
	users    PremiumRepository
}

// NewPaymentUsecase creates a new PaymentUsecase.
func NewPaymentUsecase(provider CheckoutProvider, users PremiumRepository) *PaymentUsecase {
	return &PaymentUsecase{provider: provider, users: users}
}

// StartCheckout creates a hosted checkout session and returns it.
func (u *PaymentUsecase) StartCheckout(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	s, err := u.provider.CreateSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayment, err)
	}
	metrics.CheckoutSessionsCreated.Inc()
	return s, nil
}

// Confirm verifies a returned checkout session and upgrades its user.
//
// A transaction id that was already applied yields OutcomeAlreadyProcessed
// without mutation. An unsettled payment yields ErrPaymentNotSettled and
// never touches the user.
func (u *PaymentUsecase) Confirm(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	s, err := u.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		metrics.PaymentConfirmations.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayment, err)
	}

	if s.TransactionID != "" {
		existing, err := u.users.FindByTransactionID(ctx, s.TransactionID)
		switch {
		case err == nil:
			return u.alreadyProcessed(s.TransactionID, existing.ID), nil
		case !errors.Is(err, userdomain.ErrUserNotFound):
			return nil, fmt.Errorf("failed to look up transaction: %w", err)
		}
	}

	if !s.IsPaid() || s.TransactionID == "" {
		metrics.PaymentConfirmations.WithLabelValues("unpaid").Inc()
		return nil, ErrPaymentNotSettled
	}
	if s.UserID == "" {
		return nil, ErrInvalidSession
	}

	if err := u.users.MarkPremium(ctx, s.UserID, s.TransactionID); err != nil {
		switch {
		case errors.Is(err, userdomain.ErrAlreadyUpgraded):
			// A concurrent confirmation won the conditional write, or the
			// user paid again after an earlier upgrade.
			return u.upgradedBefore(ctx, s), nil
		case errors.Is(err, userdomain.ErrUserNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("failed to upgrade user: %w", err)
		}
	}

	metrics.PaymentConfirmations.WithLabelValues(entity.OutcomeConfirmed).Inc()
	return &entity.Confirmation{
		Outcome:       entity.OutcomeConfirmed,
		TransactionID: s.TransactionID,
		UserID:        s.UserID,
	}, nil
}

// upgradedBefore reports a session whose user already carries a transaction.
// A different prior transaction marks the session as a duplicate charge.
func (u *PaymentUsecase) upgradedBefore(ctx context.Context, s *entity.CheckoutSession) *entity.Confirmation {
	user, err := u.users.FindByID(ctx, s.UserID)
	if err != nil || user.TransactionID == nil || *user.TransactionID == s.TransactionID {
		return u.alreadyProcessed(s.TransactionID, s.UserID)
	}
	metrics.PaymentConfirmations.WithLabelValues("duplicate_charge").Inc()
	return &entity.Confirmation{
		Outcome:            entity.OutcomeAlreadyProcessed,
		TransactionID:      s.TransactionID,
		UserID:             s.UserID,
		PriorTransactionID: *user.TransactionID,
	}
}

func (u *PaymentUsecase) alreadyProcessed(transactionID, userID string) *entity.Confirmation {
	metrics.PaymentConfirmations.WithLabelValues(entity.OutcomeAlreadyProcessed).Inc()
	return &entity.Confirmation{
		Outcome:       entity.OutcomeAlreadyProcessed,
		TransactionID: transactionID,
		UserID:        userID,
	}
}
