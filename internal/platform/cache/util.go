package cache

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// safe はRedisキーで問題となる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}

// deleteByPattern はSCANでパターンに一致するキーを全て集め、走査完了後にまとめて削除します。
// 走査中は削除しないこと（カーソルがずれてキーを取りこぼす）。
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var (
		cursor uint64
		keys   []string
	)
	for {
		page, cur, err := rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return err
		}
		keys = append(keys, page...)
		cursor = cur
		if cursor == 0 {
			break
		}
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := rdb.Del(ctx, keys[start:end]...).Err(); err != nil {
			return err
		}
	}
	return nil
}
