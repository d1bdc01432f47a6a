// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"lessons_backend/internal/feature/lessons/domain/entity"
	"lessons_backend/internal/feature/lessons/usecase"
	"lessons_backend/internal/platform/metrics"
)

// CachingLessonRepository decorates a LessonRepository with Redis caching.
// Reads by id and list reads per owner filter are cached; every write drops
// the lesson's id key and all list keys. A nil client disables caching.
//
// Every write also bumps a generation counter. A read that filled the cache
// while the generation moved drops its own entry, so a list fetched before a
// write is never left behind after that write's invalidation.
type CachingLessonRepository struct {
	inner     usecase.LessonRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.LessonRepository = (*CachingLessonRepository)(nil)

// NewCachingLessonRepository decorates a LessonRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "lessons".
func NewCachingLessonRepository(rdb *redis.Client, ttl time.Duration, inner usecase.LessonRepository, namespace string) *CachingLessonRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "lessons"
	}
	return &CachingLessonRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists the lesson and invalidates every cached list.
func (c *CachingLessonRepository) Create(ctx context.Context, lesson *entity.Lesson) error {
	if err := c.inner.Create(ctx, lesson); err != nil {
		return err
	}
	c.invalidate(ctx, "")
	return nil
}

// FindByID checks the cache first, then falls back to the inner repository.
// Misses caused by an unknown id are not cached.
func (c *CachingLessonRepository) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)
	var cached entity.Lesson
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	gen := c.generation(ctx)
	l, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, l, gen)
	return l, nil
}

// List checks the cache for the owner filter, then falls back to the inner repository.
func (c *CachingLessonRepository) List(ctx context.Context, owner string) ([]entity.Lesson, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, owner)
	}

	key := c.listKey(owner)
	var cached []entity.Lesson
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	gen := c.generation(ctx)
	out, err := c.inner.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out, gen)
	return out, nil
}

// Update overwrites the lesson and invalidates its id key and every cached list.
func (c *CachingLessonRepository) Update(ctx context.Context, id string, content entity.LessonContent, updatedAt time.Time) (*entity.Lesson, error) {
	l, err := c.inner.Update(ctx, id, content, updatedAt)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return l, nil
}

// Delete removes the lesson and invalidates its id key and every cached list.
func (c *CachingLessonRepository) Delete(ctx context.Context, id string) (int64, error) {
	n, err := c.inner.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.invalidate(ctx, id)
	}
	return n, nil
}

// load はキャッシュから値を読み込み、デコードできた場合にtrueを返します。破損したエントリは削除します。
func (c *CachingLessonRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		metrics.LessonCacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		metrics.LessonCacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	metrics.LessonCacheRequests.WithLabelValues("hit").Inc()
	return true
}

// store はvをキャッシュに書き込みます（ベストエフォート）。
// 読み込み開始時の世代genから書き込みが発生していた場合は、書いたエントリを削除します。
func (c *CachingLessonRepository) store(ctx context.Context, key string, v any, gen int64) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return
	}
	if c.generation(ctx) != gen {
		_ = c.rdb.Del(ctx, key).Err()
	}
}

// invalidate は世代を進め、idキー（指定時）と全ての一覧キーを削除します（ベストエフォート）。
func (c *CachingLessonRepository) invalidate(ctx context.Context, id string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Incr(ctx, c.genKey()).Err()
	if id != "" {
		_ = c.rdb.Del(ctx, c.idKey(id)).Err()
	}
	_ = deleteByPattern(ctx, c.rdb, c.namespace+":list:*")
}

// generation returns the current write generation; 0 when unset or unreadable.
func (c *CachingLessonRepository) generation(ctx context.Context) int64 {
	n, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if err != nil {
		return 0
	}
	return n
}

func (c *CachingLessonRepository) genKey() string {
	return c.namespace + ":gen"
}

func (c *CachingLessonRepository) idKey(id string) string {
	return c.namespace + ":id:" + safe(id)
}

func (c *CachingLessonRepository) listKey(owner string) string {
	if owner == "" {
		return c.namespace + ":list:all"
	}
	return c.namespace + ":list:owner:" + safe(owner)
}
