package cache

import (
	"context"
	"time"
)

// REDIS_ADDR未設定のとき。常にミス
type Nop struct{}

func (Nop) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }

func (Nop) Set(ctx context.Context, key string, value any, ttl time.Duration) error { return nil }

func (Nop) Delete(ctx context.Context, keys ...string) error { return nil }
