// Package usecase implements the business logic for the users feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lessons_backend/internal/feature/users/domain"
	"lessons_backend/internal/feature/users/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user.
	// It returns domain.ErrEmailAlreadyExists if the email is already registered.
	Create(ctx context.Context, user *entity.User) error

	// List returns users whose email equals the given one, or all users when email is empty.
	List(ctx context.Context, email string) ([]entity.User, error)

	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// RegisterInput carries the client supplied fields of a new user.
type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
}

// UserUsecase provides business logic for user operations.
type UserUsecase struct {
	users UserRepository
	now   func() time.Time
	newID func() string
}

// NewUserUsecase creates a new UserUsecase with the given repository.
func NewUserUsecase(users UserRepository) *UserUsecase {
	return &UserUsecase{
		users: users,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Register creates a free-tier user.
// Server-owned fields (id, role, premium flag, createdAt) are never taken from the input.
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	user := &entity.User{
		ID:        u.newID(),
		Email:     in.Email,
		Name:      in.Name,
		PhotoURL:  in.PhotoURL,
		Role:      entity.RoleUser,
		IsPremium: false,
		CreatedAt: u.now(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// List returns the users matching email, or every user when email is empty.
func (u *UserUsecase) List(ctx context.Context, email string) ([]entity.User, error) {
	users, err := u.users.List(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Status returns the premium flag and role of the user with the given email.
// An unknown email is reported as a free-tier user, not as an error.
func (u *UserUsecase) Status(ctx context.Context, email string) (entity.Status, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return entity.DefaultStatus(), nil
		}
		return entity.Status{}, fmt.Errorf("failed to find user: %w", err)
	}
	role := user.Role
	if role == "" {
		role = entity.RoleUser
	}
	return entity.Status{IsPremium: user.IsPremium, Role: role}, nil
}
