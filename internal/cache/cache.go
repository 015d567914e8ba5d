// Package cache 实现读旁路缓存（cache-aside）：读先查缓存、未命中回源后回填，
// 写路径只做显式失效。缓存永远只是加速器，业务事务的前置校验不读缓存，
// 因此脏缓存最多造成读接口在 TTL 窗口内返回旧数据，不会影响账务正确性。
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache 键值缓存接口。Set/Invalidate 失败由调用方记日志后忽略，
// 绝不让缓存错误波及主事务。
type Cache interface {
	// Get 命中时把缓存值反序列化进 dest 并返回 true
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set 以绝对过期时间 now+ttl 写入
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Invalidate 立刻删除若干键
	Invalidate(ctx context.Context, keys ...string) error
}

// 键空间按实体命名隔离：{entity}:{id} 单条读取，{entity}:all 列表读取
const (
	KeyBooksAll  = "books:all"
	KeyUsersAll  = "users:all"
	KeyAdminsAll = "admins:all"
)

// BookKey 单本图书的缓存键
func BookKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

// UserKey 单个用户的缓存键
func UserKey(uid string) string {
	return fmt.Sprintf("user:%s", uid)
}
