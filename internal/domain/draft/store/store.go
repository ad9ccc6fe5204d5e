package store

import (
	"sync"
	"time"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/metrics"
)

// Store 进程内草稿会话存储
// 会话不落库：提交成功即丢弃，长期不活动由回收协程清理
type Store struct {
	mu     sync.RWMutex
	drafts map[string]*model.Draft
	ttl    time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		drafts: make(map[string]*model.Draft),
		ttl:    ttl,
	}
}

// StartJanitor 启动过期回收协程
func (s *Store) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			s.Sweep()
		}
	}()
}

func (s *Store) Put(d *model.Draft) {
	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()
	metrics.DraftOpened()
}

func (s *Store) Get(id string) (*model.Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	return d, ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	_, ok := s.drafts[id]
	delete(s.drafts, id)
	s.mu.Unlock()
	if ok {
		metrics.DraftClosed()
	}
}

// Sweep 清理过期会话，返回清理数量
// 被放弃的会话连同其暂存图片在这里释放，不触发任何回调
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, d := range s.drafts {
		if d.Expired(s.ttl) {
			delete(s.drafts, id)
			removed++
			metrics.DraftClosed()
		}
	}
	return removed
}

// Len 当前会话数
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
