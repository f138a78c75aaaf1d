package session

import (
	"math/rand"
	"time"
)

// ==================== 随机 User-Agent 池 ====================

// userAgents 固定 UA 池（Chrome / Safari / Firefox 常见桌面版本）
var userAgents = []string{
	// Chrome
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",

	// Safari
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",

	// Firefox
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:119.0) " +
		"Gecko/20100101 Firefox/119.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:118.0) " +
		"Gecko/20100101 Firefox/118.0",
}

// RandomUA 从池中随机取一个 UA
func (s *Session) RandomUA() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// randDuration [0, span) 内的随机时长
func randDuration(span time.Duration) time.Duration {
	return time.Duration(rand.Int63n(int64(span)))
}
