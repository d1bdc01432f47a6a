// Package handler provides HTTP handlers for the users feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lessons_backend/internal/feature/users/domain"
	"lessons_backend/internal/feature/users/domain/entity"
	"lessons_backend/internal/feature/users/transport/http/dto"
	"lessons_backend/internal/feature/users/usecase"
)

// UserUsecase defines the user operations used by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type UserUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	List(ctx context.Context, email string) ([]entity.User, error)
	Status(ctx context.Context, email string) (entity.Status, error)
}

// UserHandler handles HTTP requests for user records.
type UserHandler struct {
	uc     UserUsecase
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(uc UserUsecase, logger *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, logger: logger}
}

// List handles GET /users?email=.
// Without the email query parameter every user is returned.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.uc.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	out := make([]dto.UserRes, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserRes(u))
	}
	c.JSON(http.StatusOK, out)
}

// Status handles GET /users/:email/status.
// Unknown emails answer {"isPremium": false, "role": "user"} with 200.
func (h *UserHandler) Status(c *gin.Context) {
	email := c.Param("email")
	status, err := h.uc.Status(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("user status lookup failed", zap.Error(err), zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.StatusRes{IsPremium: status.IsPremium, Role: status.Role})
}

// Create handles POST /users.
// - 400 when the body is invalid
// - 409 when the email is already registered
// - 201 with the stored user on success
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("create user validation failed", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.uc.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			h.logger.Info("user already exists", zap.String("email", req.Email))
			c.JSON(http.StatusConflict, gin.H{"error": domain.ErrEmailAlreadyExists.Error()})
			return
		}
		h.logger.Error("create user failed", zap.Error(err), zap.String("email", req.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.logger.Info("user registered", zap.String("email", user.Email), zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, dto.NewUserRes(*user))
}
