package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lessons_backend/internal/feature/payments/domain/entity"
	"lessons_backend/internal/feature/payments/usecase"
	userdomain "lessons_backend/internal/feature/users/domain"
)

// mockPaymentUsecase is a mock implementation of the PaymentUsecase interface.
type mockPaymentUsecase struct {
	StartCheckoutFunc func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)
	ConfirmFunc       func(ctx context.Context, sessionID string) (*entity.Confirmation, error)
}

func (m *mockPaymentUsecase) StartCheckout(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	if m.StartCheckoutFunc != nil {
		return m.StartCheckoutFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaymentUsecase) Confirm(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, sessionID)
	}
	return nil, errors.New("not implemented")
}

func setupRouter(uc PaymentUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(uc, zap.NewNop())
	r := gin.New()
	r.POST("/create-checkout-session", h.CreateCheckoutSession)
	r.PATCH("/payment-success", h.PaymentSuccess)
	return r
}

func TestPaymentHandler_CreateCheckoutSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		startFunc      func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success: returns redirect url",
			requestBody: gin.H{"userId": "u1", "email": "ann@example.com"},
			startFunc: func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
				if req.UserID != "u1" || req.Email != "ann@example.com" {
					return nil, fmt.Errorf("unexpected request %+v", req)
				}
				return &entity.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"url":"https://checkout.example.com/cs_1","sessionId":"cs_1"}`,
		},
		{
			name:           "failure: missing user id",
			requestBody:    gin.H{"email": "ann@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "failure: invalid email",
			requestBody:    gin.H{"userId": "u1", "email": "nope"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "failure: provider error",
			requestBody: gin.H{"userId": "u1", "email": "ann@example.com"},
			startFunc: func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
				return nil, fmt.Errorf("%w: timeout", usecase.ErrUpstreamPayment)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"payment provider error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockPaymentUsecase{StartCheckoutFunc: tt.startFunc})

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestPaymentHandler_PaymentSuccess(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		confirmFunc    func(ctx context.Context, sessionID string) (*entity.Confirmation, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "confirmed",
			query: "?session_id=cs_1",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return &entity.Confirmation{Outcome: entity.OutcomeConfirmed, TransactionID: "pi_1", UserID: "u1"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"payment confirmed","transactionId":"pi_1","userId":"u1"}`,
		},
		{
			name:  "already processed",
			query: "?session_id=cs_1",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return &entity.Confirmation{Outcome: entity.OutcomeAlreadyProcessed, TransactionID: "pi_1", UserID: "u1"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"already exists","transactionId":"pi_1","userId":"u1"}`,
		},
		{
			name:  "payment not settled",
			query: "?session_id=cs_1",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return nil, usecase.ErrPaymentNotSettled
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"error":"payment not completed"}`,
		},
		{
			name:  "missing session id",
			query: "",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return nil, usecase.ErrMissingSessionID
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"session_id is required"}`,
		},
		{
			name:  "user not found",
			query: "?session_id=cs_1",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return nil, userdomain.ErrUserNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"user not found"}`,
		},
		{
			name:  "provider failure",
			query: "?session_id=cs_1",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return nil, fmt.Errorf("%w: no such session", usecase.ErrUpstreamPayment)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"payment provider error"}`,
		},
		{
			name:  "unexpected failure",
			query: "?session_id=cs_1",
			confirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockPaymentUsecase{ConfirmFunc: tt.confirmFunc})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/payment-success"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestPaymentHandler_PaymentSuccess_DuplicateChargeIsLogged は、既にプレミアムなユーザーの
// 2回目の決済が 200 を返しつつ、返金用に両方のトランザクションIDを warn で記録することを検証します。
func TestPaymentHandler_PaymentSuccess_DuplicateChargeIsLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	uc := &mockPaymentUsecase{
		ConfirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
			return &entity.Confirmation{
				Outcome:            entity.OutcomeAlreadyProcessed,
				TransactionID:      "pi_new",
				UserID:             "u1",
				PriorTransactionID: "pi_old",
			}, nil
		},
	}
	h := NewPaymentHandler(uc, zap.New(core))
	r := gin.New()
	r.PATCH("/payment-success", h.PaymentSuccess)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/payment-success?session_id=cs_2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"already exists","transactionId":"pi_new","userId":"u1"}`, w.Body.String())

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if assert.Len(t, warns, 1) {
		fields := warns[0].ContextMap()
		assert.Equal(t, "cs_2", fields["session_id"])
		assert.Equal(t, "u1", fields["user_id"])
		assert.Equal(t, "pi_new", fields["transaction_id"])
		assert.Equal(t, "pi_old", fields["prior_transaction_id"])
	}
}

// TestPaymentHandler_PaymentSuccess_RetryIsNotWarned は、同一セッションの再確認では warn が出ないことを検証します。
func TestPaymentHandler_PaymentSuccess_RetryIsNotWarned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	uc := &mockPaymentUsecase{
		ConfirmFunc: func(ctx context.Context, sessionID string) (*entity.Confirmation, error) {
			return &entity.Confirmation{Outcome: entity.OutcomeAlreadyProcessed, TransactionID: "pi_1", UserID: "u1"}, nil
		},
	}
	h := NewPaymentHandler(uc, zap.New(core))
	r := gin.New()
	r.PATCH("/payment-success", h.PaymentSuccess)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/payment-success?session_id=cs_1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
