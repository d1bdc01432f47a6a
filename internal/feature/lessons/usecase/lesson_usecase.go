// Package usecase implements the business logic for the lessons feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lessons_backend/internal/feature/lessons/domain"
	"lessons_backend/internal/feature/lessons/domain/entity"
)

// LessonRepository abstracts the persistence layer for lessons.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type LessonRepository interface {
	// Create persists a new lesson.
	Create(ctx context.Context, lesson *entity.Lesson) error

	// FindByID returns domain.ErrLessonNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*entity.Lesson, error)

	// List returns lessons newest first, restricted to the owner when owner is not empty.
	List(ctx context.Context, owner string) ([]entity.Lesson, error)

	// Update overwrites the editable fields and lastUpdatedDate, and returns the stored lesson.
	// It returns domain.ErrLessonNotFound when the id is unknown.
	Update(ctx context.Context, id string, content entity.LessonContent, updatedAt time.Time) (*entity.Lesson, error)

	// Delete removes the lesson and reports how many records were deleted.
	Delete(ctx context.Context, id string) (int64, error)
}

// LessonUsecase provides business logic for lesson operations.
type LessonUsecase struct {
	lessons LessonRepository
	now     func() time.Time
	newID   func() string
}

// NewLessonUsecase creates a new LessonUsecase with the given repository.
func NewLessonUsecase(lessons LessonRepository) *LessonUsecase {
	return &LessonUsecase{
		lessons: lessons,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create stores the submitted lesson with a fresh id and createdAt.
func (u *LessonUsecase) Create(ctx context.Context, owner string, content entity.LessonContent) (*entity.Lesson, error) {
	lesson := &entity.Lesson{
		ID:            u.newID(),
		LessonContent: content,
		CreatedBy:     owner,
		CreatedAt:     u.now(),
	}
	if err := u.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

// Get returns the lesson with the given id.
func (u *LessonUsecase) Get(ctx context.Context, id string) (*entity.Lesson, error) {
	lesson, err := u.lessons.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("failed to get lesson", err)
	}
	return lesson, nil
}

// List returns lessons newest first, optionally only those created by owner.
func (u *LessonUsecase) List(ctx context.Context, owner string) ([]entity.Lesson, error) {
	lessons, err := u.lessons.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// Update overwrites the editable fields of a lesson and refreshes lastUpdatedDate.
func (u *LessonUsecase) Update(ctx context.Context, id string, content entity.LessonContent) (*entity.Lesson, error) {
	lesson, err := u.lessons.Update(ctx, id, content, u.now())
	if err != nil {
		return nil, wrap("failed to update lesson", err)
	}
	return lesson, nil
}

// Delete removes a lesson. Deleting an unknown id is not an error; it reports 0.
func (u *LessonUsecase) Delete(ctx context.Context, id string) (int64, error) {
	n, err := u.lessons.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete lesson: %w", err)
	}
	return n, nil
}

// wrap keeps domain errors unwrapped so handlers can compare them directly.
func wrap(msg string, err error) error {
	if errors.Is(err, domain.ErrLessonNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
