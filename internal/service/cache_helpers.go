package service

import (
	"context"
	"log"
	"time"

	"github.com/uskudu/books-cont/internal/cache"
)

// 缓存对主流程是尽力而为的加速器：读失败当作未命中回源，
// 写入与失效失败记日志后忽略，绝不影响已提交的业务事务。

func cacheGet(ctx context.Context, c cache.Cache, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	ok, err := c.Get(ctx, key, dest)
	if err != nil {
		GetMonitor().RecordCacheError()
		log.Printf("cache get %s failed: %v", key, err)
		return false
	}
	if ok {
		GetMonitor().RecordCacheHit()
	} else {
		GetMonitor().RecordCacheMiss()
	}
	return ok
}

func cacheSet(ctx context.Context, c cache.Cache, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		GetMonitor().RecordCacheError()
		log.Printf("cache set %s failed: %v", key, err)
	}
}

func invalidateKeys(ctx context.Context, c cache.Cache, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, keys...); err != nil {
		GetMonitor().RecordCacheError()
		log.Printf("cache invalidate %v failed: %v", keys, err)
	}
}
