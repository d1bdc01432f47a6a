// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	lessonadapters "lessons_backend/internal/feature/lessons/adapters"
	"lessons_backend/internal/feature/lessons/usecase"
	"lessons_backend/internal/platform/cache"
)

// NewLessonRepository creates a LessonRepository implementation.
// If Redis is available, the GORM repository is wrapped in the Redis read cache.
func NewLessonRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.LessonRepository {
	repo := lessonadapters.NewLessonGorm(db)
	if rdb != nil {
		return cache.NewCachingLessonRepository(rdb, ttl, repo, "lessons")
	}
	return repo
}
