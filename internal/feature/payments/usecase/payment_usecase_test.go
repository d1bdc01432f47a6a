package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessons_backend/internal/feature/payments/domain/entity"
	userdomain "lessons_backend/internal/feature/users/domain"
	userentity "lessons_backend/internal/feature/users/domain/entity"
)

// mockCheckoutProvider is a mock implementation of the CheckoutProvider interface.
type mockCheckoutProvider struct {
	CreateSessionFunc   func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)
	RetrieveSessionFunc func(ctx context.Context, sessionID string) (*entity.CheckoutSession, error)
}

func (m *mockCheckoutProvider) CreateSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, req)
	}
	return &entity.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil
}

func (m *mockCheckoutProvider) RetrieveSession(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	if m.RetrieveSessionFunc != nil {
		return m.RetrieveSessionFunc(ctx, sessionID)
	}
	return nil, errors.New("no such session")
}

// fakePremiumRepository keeps users in memory and counts mutations.
type fakePremiumRepository struct {
	users     map[string]*userentity.User
	mutations int
	findErr   error
	markErr   error
}

func newFakePremiumRepository(ids ...string) *fakePremiumRepository {
	f := &fakePremiumRepository{users: map[string]*userentity.User{}}
	for _, id := range ids {
		f.users[id] = &userentity.User{ID: id, Role: userentity.RoleUser}
	}
	return f
}

func (f *fakePremiumRepository) FindByTransactionID(ctx context.Context, transactionID string) (*userentity.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.TransactionID != nil && *u.TransactionID == transactionID {
			return u, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (f *fakePremiumRepository) FindByID(ctx context.Context, id string) (*userentity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakePremiumRepository) MarkPremium(ctx context.Context, userID, transactionID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	u, ok := f.users[userID]
	if !ok {
		return userdomain.ErrUserNotFound
	}
	if u.TransactionID != nil {
		return userdomain.ErrAlreadyUpgraded
	}
	u.IsPremium = true
	u.TransactionID = &transactionID
	f.mutations++
	return nil
}

func paidSession(sessionID string) *entity.CheckoutSession {
	return &entity.CheckoutSession{
		ID:            sessionID,
		PaymentStatus: entity.PaymentStatusPaid,
		TransactionID: "pi_1",
		UserID:        "u1",
		Email:         "ann@example.com",
	}
}

func TestPaymentUsecase_StartCheckout(t *testing.T) {
	t.Run("returns the provider session", func(t *testing.T) {
		var got entity.CheckoutRequest
		provider := &mockCheckoutProvider{
			CreateSessionFunc: func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
				got = req
				return &entity.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil
			},
		}
		uc := NewPaymentUsecase(provider, newFakePremiumRepository())

		s, err := uc.StartCheckout(context.Background(), entity.CheckoutRequest{UserID: "u1", Email: "ann@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.example.com/cs_1", s.URL)
		assert.Equal(t, entity.CheckoutRequest{UserID: "u1", Email: "ann@example.com"}, got)
	})

	t.Run("provider failure is an upstream error", func(t *testing.T) {
		provider := &mockCheckoutProvider{
			CreateSessionFunc: func(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
				return nil, errors.New("stripe: 500")
			},
		}
		uc := NewPaymentUsecase(provider, newFakePremiumRepository())

		_, err := uc.StartCheckout(context.Background(), entity.CheckoutRequest{UserID: "u1", Email: "ann@example.com"})

		assert.ErrorIs(t, err, ErrUpstreamPayment)
	})
}

func TestPaymentUsecase_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("paid session upgrades the user", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				return paidSession(id), nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		c, err := uc.Confirm(ctx, "cs_1")

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeConfirmed, c.Outcome)
		assert.Equal(t, "pi_1", c.TransactionID)
		assert.Equal(t, "u1", c.UserID)
		assert.True(t, repo.users["u1"].IsPremium)
		assert.Equal(t, "pi_1", *repo.users["u1"].TransactionID)
	})

	t.Run("confirming the same transaction twice is idempotent", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				return paidSession(id), nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		first, err := uc.Confirm(ctx, "cs_1")
		require.NoError(t, err)
		second, err := uc.Confirm(ctx, "cs_1")
		require.NoError(t, err)

		assert.Equal(t, entity.OutcomeConfirmed, first.Outcome)
		assert.Equal(t, entity.OutcomeAlreadyProcessed, second.Outcome)
		assert.Equal(t, 1, repo.mutations, "second confirmation must not mutate")
	})

	t.Run("unsettled payment never upgrades the user", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				s := paidSession(id)
				s.PaymentStatus = "unpaid"
				return s, nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		c, err := uc.Confirm(ctx, "cs_1")

		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrPaymentNotSettled)
		assert.False(t, repo.users["u1"].IsPremium)
		assert.Zero(t, repo.mutations)
	})

	t.Run("paid status without payment intent is not settled", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				s := paidSession(id)
				s.TransactionID = ""
				return s, nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		_, err := uc.Confirm(ctx, "cs_1")

		assert.ErrorIs(t, err, ErrPaymentNotSettled)
		assert.Zero(t, repo.mutations)
	})

	t.Run("lost race on the conditional write reports already processed", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		repo.markErr = userdomain.ErrAlreadyUpgraded
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				return paidSession(id), nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		c, err := uc.Confirm(ctx, "cs_1")

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeAlreadyProcessed, c.Outcome)
		assert.False(t, c.IsDuplicateCharge())
	})

	t.Run("second payment by a premium user is flagged as duplicate charge", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		prior := "pi_old"
		repo.users["u1"].IsPremium = true
		repo.users["u1"].TransactionID = &prior
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				return paidSession(id), nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		c, err := uc.Confirm(ctx, "cs_2")

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeAlreadyProcessed, c.Outcome)
		assert.Equal(t, "pi_1", c.TransactionID)
		assert.Equal(t, "pi_old", c.PriorTransactionID)
		assert.True(t, c.IsDuplicateCharge())
		assert.Equal(t, "pi_old", *repo.users["u1"].TransactionID)
		assert.Zero(t, repo.mutations)
	})

	t.Run("user from metadata does not exist", func(t *testing.T) {
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				return paidSession(id), nil
			},
		}
		uc := NewPaymentUsecase(provider, newFakePremiumRepository())

		_, err := uc.Confirm(ctx, "cs_1")

		assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
	})

	t.Run("session without user metadata", func(t *testing.T) {
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				s := paidSession(id)
				s.UserID = ""
				return s, nil
			},
		}
		uc := NewPaymentUsecase(provider, newFakePremiumRepository("u1"))

		_, err := uc.Confirm(ctx, "cs_1")

		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("missing session id", func(t *testing.T) {
		uc := NewPaymentUsecase(&mockCheckoutProvider{}, newFakePremiumRepository())

		_, err := uc.Confirm(ctx, "")

		assert.ErrorIs(t, err, ErrMissingSessionID)
	})

	t.Run("provider failure", func(t *testing.T) {
		uc := NewPaymentUsecase(&mockCheckoutProvider{}, newFakePremiumRepository())

		_, err := uc.Confirm(ctx, "cs_1")

		assert.ErrorIs(t, err, ErrUpstreamPayment)
	})

	t.Run("repository failure on lookup", func(t *testing.T) {
		repo := newFakePremiumRepository("u1")
		repo.findErr = errors.New("db down")
		provider := &mockCheckoutProvider{
			RetrieveSessionFunc: func(ctx context.Context, id string) (*entity.CheckoutSession, error) {
				return paidSession(id), nil
			},
		}
		uc := NewPaymentUsecase(provider, repo)

		_, err := uc.Confirm(ctx, "cs_1")

		assert.ErrorIs(t, err, repo.findErr)
		assert.Zero(t, repo.mutations)
	})
}
