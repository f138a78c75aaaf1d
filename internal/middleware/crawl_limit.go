package middleware

import (
	"sync"
	"time"
)

// ==================== CrawlRateLimiter 抓取冷却限流器 ====================

// CrawlRateLimiter 同账号抓取冷却
// 一次聚合抓取对上游是几十上百个请求，调用方高频重复触发
// 只会加速账号被风控。按账号维度做冷却间隔。
type CrawlRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewCrawlRateLimiter 创建限流器（Session 同理：每个依赖树一份，不做全局单例）
func NewCrawlRateLimiter() *CrawlRateLimiter {
	return &CrawlRateLimiter{}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查并占用执行窗口
// key: 限流键；interval: 冷却间隔
func (r *CrawlRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的冷却
func (r *CrawlRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// AccountKey 生成账号级限流键
func AccountKey(accountID string) string {
	return "account:" + accountID + ":orders"
}
