package cache

import (
	"context"
	"encoding/json"
	"time"

	radix "github.com/mediocregopher/radix/v3"
)

// redisCache 基于 radix 的 Redis 实现，值统一用 JSON 编码
type redisCache struct {
	client radix.Client
}

// NewRedis 用现有 Redis 连接池构建缓存
func NewRedis(client radix.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var raw []byte
	if err := c.client.Do(radix.Cmd(&raw, "GET", key)); err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// 数据损坏，清理掉让调用方回源
		_ = c.client.Do(radix.Cmd(nil, "DEL", key))
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	secs := int64(ttl / time.Second)
	if secs <= 0 {
		secs = 1
	}
	return c.client.Do(radix.FlatCmd(nil, "SETEX", key, secs, body))
}

func (c *redisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]string, 0, len(keys))
	args = append(args, keys...)
	return c.client.Do(radix.Cmd(nil, "DEL", args...))
}
