// Package ratelimit 提供进程内限流器，未部署 Redis 时使用
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter 按键维护令牌桶
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter 创建进程内限流器
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*entry),
		now:      time.Now,
	}
}

// Allow 每个窗口补满 limit 个令牌，桶容量为 limit
func (m *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	if limit <= 0 || window <= 0 {
		return false, 0, nil
	}
	now := m.now()

	m.mu.Lock()
	e, ok := m.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		m.limiters[key] = e
	}
	e.lastSeen = now
	m.mu.Unlock()

	if !e.limiter.AllowN(now, 1) {
		return false, 0, nil
	}
	remaining := int(e.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, nil
}

// Sweep 清理 idle 时间内未使用的键
func (m *MemoryLimiter) Sweep(idle time.Duration) int {
	deadline := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.limiters {
		if e.lastSeen.Before(deadline) {
			delete(m.limiters, key)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的键数量
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}
