// Package adapters provides repository implementations for the lessons feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lessons_backend/internal/feature/lessons/domain"
	"lessons_backend/internal/feature/lessons/domain/entity"
	"lessons_backend/internal/feature/lessons/usecase"
)

// lessonGorm is a GORM implementation of the LessonRepository interface.
type lessonGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure lessonGorm implements LessonRepository.
var _ usecase.LessonRepository = (*lessonGorm)(nil)

// NewLessonGorm creates a new instance of lessonGorm.
func NewLessonGorm(db *gorm.DB) *lessonGorm {
	return &lessonGorm{db: db}
}

// Create persists a new lesson.
func (r *lessonGorm) Create(ctx context.Context, l *entity.Lesson) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// FindByID retrieves a lesson by its id.
func (r *lessonGorm) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	var l entity.Lesson
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns lessons ordered by creation time, newest first.
func (r *lessonGorm) List(ctx context.Context, owner string) ([]entity.Lesson, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if owner != "" {
		q = q.Where("created_by = ?", owner)
	}
	lessons := []entity.Lesson{}
	if err := q.Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// Update overwrites exactly the editable columns. A map is used so that
// empty strings overwrite stored values as well.
func (r *lessonGorm) Update(ctx context.Context, id string, c entity.LessonContent, updatedAt time.Time) (*entity.Lesson, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Lesson{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"lesson_title":      c.Title,
			"category":          c.Category,
			"emotional_tone":    c.EmotionalTone,
			"privacy":           c.Privacy,
			"access_level":      c.AccessLevel,
			"lesson_image":      c.Image,
			"lesson_desc":       c.Description,
			"last_updated_date": updatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrLessonNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the lesson with the given id.
func (r *lessonGorm) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&entity.Lesson{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
