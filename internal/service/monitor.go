package service

import (
	"sync"
	"time"
)

// Monitor 监控服务，统计账务操作与缓存/基础设施错误
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	CacheErrors int64
	MQErrors    int64
	DBErrors    int64

	// 账务统计
	Purchases      int64
	PurchaseErrors int64
	Returns        int64
	ReturnErrors   int64

	// 缓存统计
	CacheHits   int64
	CacheMisses int64

	// 时间统计
	LastCacheError time.Time
	LastMQError    time.Time
	LastDBError    time.Time
	LastPurchase   time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordCacheError 记录缓存错误
func (m *Monitor) RecordCacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors++
	m.LastCacheError = time.Now()
}

// RecordMQError 记录MQ错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordPurchase 记录购买结果
func (m *Monitor) RecordPurchase(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.Purchases++
		m.LastPurchase = time.Now()
	} else {
		m.PurchaseErrors++
	}
}

// RecordReturn 记录退货结果
func (m *Monitor) RecordReturn(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.Returns++
	} else {
		m.ReturnErrors++
	}
}

// RecordCacheHit 记录缓存命中
func (m *Monitor) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

// RecordCacheMiss 记录缓存未命中
func (m *Monitor) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hitRate := float64(0)
	total := m.CacheHits + m.CacheMisses
	if total > 0 {
		hitRate = float64(m.CacheHits) / float64(total) * 100
	}

	return map[string]interface{}{
		"errors": map[string]interface{}{
			"cache": m.CacheErrors,
			"mq":    m.MQErrors,
			"db":    m.DBErrors,
		},
		"ledger": map[string]interface{}{
			"purchases":       m.Purchases,
			"purchase_errors": m.PurchaseErrors,
			"returns":         m.Returns,
			"return_errors":   m.ReturnErrors,
		},
		"cache": map[string]interface{}{
			"hits":     m.CacheHits,
			"misses":   m.CacheMisses,
			"hit_rate": hitRate,
		},
		"last_events": map[string]interface{}{
			"cache_error":   m.LastCacheError,
			"mq_error":      m.LastMQError,
			"db_error":      m.LastDBError,
			"last_purchase": m.LastPurchase,
		},
	}
}

// Reset 重置统计（用于测试或定期清理）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors = 0
	m.MQErrors = 0
	m.DBErrors = 0
	m.Purchases = 0
	m.PurchaseErrors = 0
	m.Returns = 0
	m.ReturnErrors = 0
	m.CacheHits = 0
	m.CacheMisses = 0
}
