package usecase

import "errors"

var (
	// ErrMissingSessionID is returned when no checkout session id is supplied.
	ErrMissingSessionID = errors.New("session_id is required")

	// ErrInvalidSession is returned when a checkout session carries no user metadata.
	ErrInvalidSession = errors.New("checkout session is not linked to a user")

	// ErrPaymentNotSettled is returned when the provider has not settled the payment.
	ErrPaymentNotSettled = errors.New("payment not completed")

	// ErrUpstreamPayment wraps failures of the payment provider.
	ErrUpstreamPayment = errors.New("payment provider error")
)
