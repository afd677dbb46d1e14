package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const cacheKeyBooks = "books"

func cartsCacheKey(userID int64) string {
	return fmt.Sprintf("carts:%d", userID)
}

func ordersCacheKey(userID int64) string {
	return fmt.Sprintf("orders:%d", userID)
}

// キャッシュにあればそれを、無ければloadしてから保存する
// キャッシュのエラーはログだけ
func remember[T any](ctx context.Context, c Cache, log *zap.Logger, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	ok, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func forget(ctx context.Context, c Cache, log *zap.Logger, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		log.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
