package datagen

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
	"dummy-data-api/pkg/metrics"
)

// SessionStore 内存会话表，不做任何持久化
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewSessionStore 创建会话表；idleTTL <= 0 表示永不过期
func NewSessionStore(idleTTL time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create 新建会话
func (s *SessionStore) Create() *Session {
	sess := NewSession(uuid.New().String(), s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return sess
}

// Get 按 ID 查找会话
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return sess, nil
}

// Delete 丢弃会话，返回是否存在
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return ok
}

// Len 当前会话数
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle 清理空闲超时的会话，正在生成的会话不清理
func (s *SessionStore) EvictIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	deadline := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.Loading() || sess.LastActive().After(deadline) {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return evicted
}

// RunJanitor 周期性清理空闲会话，直到 ctx 结束
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				logger.Debug(ctx, "idle sessions evicted", "count", n, "remaining", s.Len())
			}
		}
	}
}
