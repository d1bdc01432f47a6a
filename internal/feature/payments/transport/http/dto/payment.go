// Package dto defines data transfer objects for the payments feature's HTTP transport layer.
package dto

// CheckoutReq represents the request body for POST /create-checkout-session.
type CheckoutReq struct {
	UserID string `json:"userId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

// CheckoutRes carries the hosted checkout page the client must redirect to.
type CheckoutRes struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// ConfirmRes is the response body for PATCH /payment-success.
type ConfirmRes struct {
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
	UserID        string `json:"userId,omitempty"`
}
