// Package stripecheckout implements the hosted checkout provider on Stripe Checkout.
package stripecheckout

import "time"

// Config holds configuration for the Stripe Checkout client.
type Config struct {
	SecretKey string        // Stripe secret API key
	APIURL    string        // Optional API base URL override; empty uses api.stripe.com
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // max API calls per second; 0 disables limiting

	// SiteDomain is the frontend origin the customer is sent back to.
	SiteDomain string

	ProductName        string
	ProductDescription string
	UnitAmount         int64  // price in the currency's minor unit
	Currency           string // ISO 4217, lower case
}

// SuccessURL is the redirect after a completed checkout. Stripe substitutes the session id.
func (c Config) SuccessURL() string {
	return c.SiteDomain + "/payment-success?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL is the redirect after an abandoned checkout.
func (c Config) CancelURL() string {
	return c.SiteDomain + "/payment-cancelled"
}
