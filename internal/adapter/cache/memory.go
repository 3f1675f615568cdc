package cache

import (
	"context"
	"sync"
	"time"

	"github-portfolio-analyzer/internal/domain"
)

// cacheItem 保存序列化后的完整报告，读出时反序列化成新对象
type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

func (i *cacheItem) expired(now time.Time) bool {
	return !now.Before(i.expiresAt)
}

// Memory 进程内的 port.ReportCache 实现
type Memory struct {
	mu      sync.RWMutex
	items   map[string]*cacheItem
	nowFunc func() time.Time
}

// NewMemory 创建空缓存
func NewMemory() *Memory {
	return &Memory{
		items:   make(map[string]*cacheItem),
		nowFunc: time.Now,
	}
}

func (m *Memory) now() time.Time {
	if m.nowFunc == nil {
		return time.Now()
	}
	return m.nowFunc()
}

// Get 读取未过期的报告
func (m *Memory) Get(_ context.Context, key string) (*domain.Report, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || item.expired(m.now()) {
		return nil, false, nil
	}

	report, err := DecodeReport(item.data)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// Set 序列化后整体替换
func (m *Memory) Set(_ context.Context, key string, report *domain.Report, ttl time.Duration) error {
	data, err := EncodeReport(report)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = &cacheItem{data: data, expiresAt: m.now().Add(ttl)}
	return nil
}

// PurgeExpired 删除过期条目
func (m *Memory) PurgeExpired(_ context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key, item := range m.items {
		if item.expired(now) {
			delete(m.items, key)
			n++
		}
	}
	return n, nil
}
