// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

import (
	"time"

	"lessons_backend/internal/feature/users/domain/entity"
)

// CreateUserReq represents the request body for POST /users.
// Fields such as role or isPremium are not bindable; the server assigns them.
type CreateUserReq struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// UserRes is the JSON representation of a user record.
type UserRes struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	PhotoURL      string    `json:"photoURL,omitempty"`
	Role          string    `json:"role"`
	IsPremium     bool      `json:"isPremium"`
	TransactionID *string   `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StatusRes is the response body for GET /users/:email/status.
type StatusRes struct {
	IsPremium bool   `json:"isPremium"`
	Role      string `json:"role"`
}

// NewUserRes converts a user entity to its response shape.
func NewUserRes(u entity.User) UserRes {
	return UserRes{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PhotoURL:      u.PhotoURL,
		Role:          u.Role,
		IsPremium:     u.IsPremium,
		TransactionID: u.TransactionID,
		CreatedAt:     u.CreatedAt,
	}
}
