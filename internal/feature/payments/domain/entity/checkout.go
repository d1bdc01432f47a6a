// Package entity defines the domain entities for the payments feature.
package entity

// PaymentStatusPaid is the provider status of a settled checkout session.
const PaymentStatusPaid = "paid"

// Confirmation outcomes.
const (
	OutcomeConfirmed        = "confirmed"
	OutcomeAlreadyProcessed = "already_processed"
)

// CheckoutRequest identifies the user buying the premium upgrade.
type CheckoutRequest struct {
	UserID string
	Email  string
}

// CheckoutSession is the provider-independent view of a hosted checkout session.
type CheckoutSession struct {
	ID  string
	URL string

	// PaymentStatus is "paid", "unpaid" or "no_payment_required".
	PaymentStatus string

	// TransactionID is the provider's payment intent id. Empty until a payment exists.
	TransactionID string

	// UserID and Email come from the metadata attached at creation.
	UserID string
	Email  string
}

// IsPaid reports whether the provider settled the payment.
func (s CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Confirmation is the result of confirming a checkout session.
type Confirmation struct {
	Outcome       string
	TransactionID string
	UserID        string

	// PriorTransactionID is set when the user was already upgraded by a
	// different payment, i.e. TransactionID is a second charge to refund.
	PriorTransactionID string
}

// IsDuplicateCharge reports whether the confirmed payment paid for an upgrade the user already had.
func (c Confirmation) IsDuplicateCharge() bool {
	return c.PriorTransactionID != "" && c.PriorTransactionID != c.TransactionID
}
