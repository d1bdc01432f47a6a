// Package adapters provides repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	paymentusecase "lessons_backend/internal/feature/payments/usecase"
	"lessons_backend/internal/feature/users/domain"
	"lessons_backend/internal/feature/users/domain/entity"
	"lessons_backend/internal/feature/users/usecase"
)

// userGorm is a GORM implementation of the user repositories.
// The *gorm.DB must be opened with TranslateError so that unique index
// violations surface as gorm.ErrDuplicatedKey.
type userGorm struct {
	db *gorm.DB
}

// Compile-time checks to ensure userGorm implements UserRepository and PremiumRepository.
var (
	_ usecase.UserRepository           = (*userGorm)(nil)
	_ paymentusecase.PremiumRepository = (*userGorm)(nil)
)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts the user. The unique index on email makes the duplicate
// check atomic; a violation is returned as domain.ErrEmailAlreadyExists.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// List returns users in insertion order, filtered by exact email when given.
func (r *userGorm) List(ctx context.Context, email string) ([]entity.User, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if email != "" {
		q = q.Where("email = ?", email)
	}
	users := []entity.User{}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail returns domain.ErrUserNotFound when no user has the email.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID returns domain.ErrUserNotFound when no user has the id.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByTransactionID returns the user upgraded by the given payment, or domain.ErrUserNotFound.
func (r *userGorm) FindByTransactionID(ctx context.Context, transactionID string) (*entity.User, error) {
	return r.first(ctx, "transaction_id = ?", transactionID)
}

// MarkPremium upgrades the user and records the transaction id in one
// conditional write. It only applies to users without a transaction id, and
// the unique index on transaction_id rejects reusing a payment for a second
// user, so concurrent confirmations cannot both succeed.
func (r *userGorm) MarkPremium(ctx context.Context, userID, transactionID string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND transaction_id IS NULL", userID).
		Updates(map[string]any{
			"is_premium":     true,
			"transaction_id": transactionID,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyUpgraded
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the user does not exist or it already carries a transaction.
		if _, err := r.FindByID(ctx, userID); err != nil {
			return err
		}
		return domain.ErrAlreadyUpgraded
	}
	return nil
}

func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
