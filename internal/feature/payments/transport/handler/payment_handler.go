// Package handler provides HTTP handlers for the payments feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lessons_backend/internal/feature/payments/domain/entity"
	"lessons_backend/internal/feature/payments/transport/http/dto"
	"lessons_backend/internal/feature/payments/usecase"
	userdomain "lessons_backend/internal/feature/users/domain"
)

const (
	msgConfirmed     = "payment confirmed"
	msgAlreadyExists = "already exists"
)

// PaymentUsecase defines the payment operations used by the handler.
type PaymentUsecase interface {
	StartCheckout(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)
	Confirm(ctx context.Context, sessionID string) (*entity.Confirmation, error)
}

// PaymentHandler handles the premium upgrade endpoints.
type PaymentHandler struct {
	uc     PaymentUsecase
	logger *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(uc PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: logger}
}

// CreateCheckoutSession handles POST /create-checkout-session.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req dto.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("checkout validation failed", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.uc.StartCheckout(c.Request.Context(), entity.CheckoutRequest{UserID: req.UserID, Email: req.Email})
	if err != nil {
		h.respondError(c, err, zap.String("user_id", req.UserID))
		return
	}
	h.logger.Info("checkout session created", zap.String("session_id", s.ID), zap.String("user_id", req.UserID))
	c.JSON(http.StatusOK, dto.CheckoutRes{URL: s.URL, SessionID: s.ID})
}

// PaymentSuccess handles PATCH /payment-success?session_id=.
// - 200 "payment confirmed" after upgrading the user
// - 200 "already exists" when the transaction was applied before
// - 402 when the payment is not settled; the user is left untouched
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	conf, err := h.uc.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err, zap.String("session_id", sessionID))
		return
	}

	msg := msgConfirmed
	if conf.Outcome == entity.OutcomeAlreadyProcessed {
		msg = msgAlreadyExists
		if conf.IsDuplicateCharge() {
			h.logger.Warn("duplicate premium payment, refund required",
				zap.String("session_id", sessionID),
				zap.String("user_id", conf.UserID),
				zap.String("transaction_id", conf.TransactionID),
				zap.String("prior_transaction_id", conf.PriorTransactionID))
		}
	} else {
		h.logger.Info("user upgraded to premium",
			zap.String("user_id", conf.UserID),
			zap.String("transaction_id", conf.TransactionID))
	}
	c.JSON(http.StatusOK, dto.ConfirmRes{
		Message:       msg,
		TransactionID: conf.TransactionID,
		UserID:        conf.UserID,
	})
}

func (h *PaymentHandler) respondError(c *gin.Context, err error, field zap.Field) {
	var status int
	switch {
	case errors.Is(err, usecase.ErrMissingSessionID), errors.Is(err, usecase.ErrInvalidSession):
		status = http.StatusBadRequest
	case errors.Is(err, userdomain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrPaymentNotSettled):
		status = http.StatusPaymentRequired
	case errors.Is(err, usecase.ErrUpstreamPayment):
		h.logger.Error("payment provider call failed", zap.Error(err), field)
		c.JSON(http.StatusBadGateway, gin.H{"error": usecase.ErrUpstreamPayment.Error()})
		return
	default:
		h.logger.Error("payment request failed", zap.Error(err), field)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.logger.Warn("payment request rejected", zap.Error(err), field)
	c.JSON(status, gin.H{"error": err.Error()})
}
