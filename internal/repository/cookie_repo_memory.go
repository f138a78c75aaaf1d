package repository

import (
	"context"
	"sync"
	"time"
)

// ==================== 内存实现 ====================

// memoryEntry 内存条目
type memoryEntry struct {
	cookies map[string]string
	savedAt time.Time
}

// MemoryCookieRepository sync.Map 实现，过期懒删除
// 测试默认使用；也可做单进程部署的轻量后端
type MemoryCookieRepository struct {
	entries sync.Map // accountID -> memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCookieRepository 创建内存仓库
func NewMemoryCookieRepository() *MemoryCookieRepository {
	return &MemoryCookieRepository{
		ttl: CookieTTL,
		now: time.Now,
	}
}

// SetClock 注入时钟（测试用）
func (r *MemoryCookieRepository) SetClock(now func() time.Time) { r.now = now }

// SetTTL 覆盖默认 TTL
func (r *MemoryCookieRepository) SetTTL(ttl time.Duration) { r.ttl = ttl }

// Save 覆盖写入
func (r *MemoryCookieRepository) Save(_ context.Context, accountID string, cookies map[string]string) error {
	copied := make(map[string]string, len(cookies))
	for k, v := range cookies {
		copied[k] = v
	}
	r.entries.Store(accountID, memoryEntry{cookies: copied, savedAt: r.now()})
	return nil
}

// Load 读取；过期懒删除
func (r *MemoryCookieRepository) Load(_ context.Context, accountID string) (map[string]string, bool, error) {
	val, ok := r.entries.Load(accountID)
	if !ok {
		return nil, false, nil
	}
	entry := val.(memoryEntry)
	if r.now().Sub(entry.savedAt) > r.ttl {
		r.entries.Delete(accountID)
		return nil, false, nil
	}
	return entry.cookies, true, nil
}

// Sweep 清理所有过期条目
func (r *MemoryCookieRepository) Sweep(_ context.Context) (int64, error) {
	var removed int64
	now := r.now()
	r.entries.Range(func(key, val any) bool {
		if now.Sub(val.(memoryEntry).savedAt) > r.ttl {
			r.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed, nil
}
