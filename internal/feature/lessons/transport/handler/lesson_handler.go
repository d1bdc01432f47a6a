// Package handler provides HTTP handlers for the lessons feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lessons_backend/internal/feature/lessons/domain"
	"lessons_backend/internal/feature/lessons/domain/entity"
	"lessons_backend/internal/feature/lessons/transport/http/dto"
)

// LessonUsecase defines the lesson operations used by the handler.
type LessonUsecase interface {
	Create(ctx context.Context, owner string, content entity.LessonContent) (*entity.Lesson, error)
	Get(ctx context.Context, id string) (*entity.Lesson, error)
	List(ctx context.Context, owner string) ([]entity.Lesson, error)
	Update(ctx context.Context, id string, content entity.LessonContent) (*entity.Lesson, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// LessonHandler handles HTTP requests for lessons.
type LessonHandler struct {
	uc     LessonUsecase
	logger *zap.Logger
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(uc LessonUsecase, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{uc: uc, logger: logger}
}

// List handles GET /lessons?email=, newest first.
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.uc.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.fail(c, "list lessons failed", err)
		return
	}
	out := make([]dto.LessonRes, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, dto.NewLessonRes(l))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /lessons/:id.
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get lesson failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLessonRes(*lesson))
}

// Create handles POST /lessons.
func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.CreateLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("create lesson validation failed", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := h.uc.Create(c.Request.Context(), req.CreatedBy, req.Content())
	if err != nil {
		h.fail(c, "create lesson failed", err)
		return
	}
	h.logger.Info("lesson created", zap.String("lesson_id", lesson.ID), zap.String("created_by", lesson.CreatedBy))
	c.JSON(http.StatusCreated, dto.NewLessonRes(*lesson))
}

// Update handles PATCH /lessons/:id.
// Every editable field is overwritten; fields outside that set are ignored.
func (h *LessonHandler) Update(c *gin.Context) {
	var req dto.UpdateLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("update lesson validation failed", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := h.uc.Update(c.Request.Context(), c.Param("id"), req.Content())
	if err != nil {
		h.fail(c, "update lesson failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLessonRes(*lesson))
}

// Delete handles DELETE /lessons/:id. Unknown ids answer deletedCount 0.
func (h *LessonHandler) Delete(c *gin.Context) {
	n, err := h.uc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete lesson failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteRes{DeletedCount: n})
}

func (h *LessonHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, domain.ErrLessonNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrLessonNotFound.Error()})
		return
	}
	h.logger.Error(msg, zap.Error(err), zap.String("lesson_id", c.Param("id")))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
