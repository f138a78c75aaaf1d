package repository

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ==================== Cookie 仓库契约 ====================

// CookieTTL 会话 Cookie 有效期，超过即视为不存在
const CookieTTL = 3600 * time.Second

// CookieRepository 会话 Cookie 仓库
// 按账号维度存取，读取时强制 TTL；过期/缺失返回 "不存在" 而不是错误。
// 同账号并发写入为 last-write-wins，不做合并。
// 实现可替换：文件 / 内存 / 数据库，契约不变。
type CookieRepository interface {
	Save(ctx context.Context, accountID string, cookies map[string]string) error
	Load(ctx context.Context, accountID string) (map[string]string, bool, error)
	// Sweep 清理过期记录，返回清掉的条数
	Sweep(ctx context.Context) (int64, error)
}

// cookiePayload 落盘格式：{cookies, saved_at}
// saved_at 为 Unix 秒（浮点），与既有磁盘缓存兼容
type cookiePayload struct {
	Cookies map[string]string `json:"cookies"`
	SavedAt float64           `json:"saved_at"`
}

// ==================== 文件实现 ====================

// FileCookieRepository 单机文件仓库，每账号一个 JSON 文件
type FileCookieRepository struct {
	baseDir string
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// NewFileCookieRepository 创建文件仓库并确保目录存在
func NewFileCookieRepository(baseDir string) (*FileCookieRepository, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &FileCookieRepository{
		baseDir: baseDir,
		ttl:     CookieTTL,
		now:     time.Now,
		log:     zap.L().Named("cookie_repo"),
	}, nil
}

// SetClock 注入时钟（测试用）
func (r *FileCookieRepository) SetClock(now func() time.Time) { r.now = now }

// SetTTL 覆盖默认 TTL
func (r *FileCookieRepository) SetTTL(ttl time.Duration) { r.ttl = ttl }

// path 账号 id 作为文件名，转义掉路径分隔符
func (r *FileCookieRepository) path(accountID string) string {
	return filepath.Join(r.baseDir, url.PathEscape(accountID)+".json")
}

// Save 覆盖写入账号的 Cookie 记录
func (r *FileCookieRepository) Save(_ context.Context, accountID string, cookies map[string]string) error {
	payload := cookiePayload{
		Cookies: cookies,
		SavedAt: float64(r.now().UnixNano()) / float64(time.Second),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(accountID), data, 0o600)
}

// Load 读取账号 Cookie；过期或缺失返回 (nil, false, nil)
func (r *FileCookieRepository) Load(_ context.Context, accountID string) (map[string]string, bool, error) {
	data, err := os.ReadFile(r.path(accountID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var payload cookiePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// 文件损坏视为不存在，下次登录覆盖
		r.log.Warn("Cookie 文件损坏", zap.String("account_id", accountID), zap.Error(err))
		return nil, false, nil
	}

	age := float64(r.now().UnixNano())/float64(time.Second) - payload.SavedAt
	if age > r.ttl.Seconds() {
		return nil, false, nil
	}
	return payload.Cookies, true, nil
}

// Sweep 删除目录下所有过期记录
func (r *FileCookieRepository) Sweep(_ context.Context) (int64, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return 0, err
	}

	var removed int64
	nowSec := float64(r.now().UnixNano()) / float64(time.Second)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(r.baseDir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var payload cookiePayload
		if err := json.Unmarshal(data, &payload); err == nil {
			if nowSec-payload.SavedAt <= r.ttl.Seconds() {
				continue
			}
		}
		// 过期或损坏的一并清掉
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}
