package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"baemin_crawler_v1_202601/pkg/antibot"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ==================== 会话配置 ====================

// Options 会话传输配置
// 一个 Session 只服务一次登录/抓单操作，不跨操作共享，用完必须 Close。
type Options struct {
	Timeout       time.Duration // 单请求连接/读取超时
	Impersonate   string        // 浏览器指纹档位："chrome" / "off"
	HTTPVersion   string        // "v1" 强制 HTTP/1.1
	ProxyURL      string        // 可选上游代理
	MaxConcurrent int64         // 并发闸门容量
	JitterMin     time.Duration // 随机抖动下界
	JitterMax     time.Duration // 随机抖动上界
}

// DefaultOptions 默认配置
func DefaultOptions() Options {
	return Options{
		Timeout:       30 * time.Second,
		Impersonate:   "chrome",
		HTTPVersion:   "v1",
		MaxConcurrent: 3,
		JitterMin:     200 * time.Millisecond,
		JitterMax:     800 * time.Millisecond,
	}
}

// ==================== Session 限流传输层 ====================

// Session 带限流与反爬伪装的 HTTP 会话
// 闸门归 Session 自有（非全局），不同操作各建各的，互不干扰。
type Session struct {
	opts Options
	gate *semaphore.Weighted
	log  *zap.Logger

	mu     sync.Mutex
	client *resty.Client
}

// New 创建会话；非法并发容量回退为默认值
func New(opts Options) *Session {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultOptions().MaxConcurrent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Session{
		opts: opts,
		gate: semaphore.NewWeighted(opts.MaxConcurrent),
		log:  zap.L().Named("session"),
	}
}

// ReqOptions 单次请求参数
type ReqOptions struct {
	Headers map[string]string
	Params  map[string]string
	Cookies map[string]string
	Body    interface{} // POST JSON 体
	Out     interface{} // 结构化解析目标，nil 表示不解析
}

// Result 单次请求结果
// 传输层从不返回 error：一切故障折叠为 Status 500，
// 真实原因走 Err 侧信道（已在发生点记日志），调用方只按状态码分支。
type Result struct {
	Status  int
	Blocked bool              // 命中反爬拦截页
	RawBody string            // 原始响应体
	Cookies map[string]string // 响应 Set-Cookie
	Err     error             // 侧信道：传输/解析的真实原因
}

// Get 发送 GET 请求
func (s *Session) Get(ctx context.Context, url string, opt ReqOptions) *Result {
	return s.do(ctx, http.MethodGet, url, opt)
}

// Post 发送 POST 请求
func (s *Session) Post(ctx context.Context, url string, opt ReqOptions) *Result {
	return s.do(ctx, http.MethodPost, url, opt)
}

// do 统一发送路径：闸门 -> 抖动 -> 发送 -> 拦截检测 -> 解析
func (s *Session) do(ctx context.Context, method, url string, opt ReqOptions) *Result {
	// 1. 并发闸门：持有名额期间完成抖动与发送
	if err := s.gate.Acquire(ctx, 1); err != nil {
		s.log.Error("获取并发名额失败", zap.String("url", url), zap.Error(err))
		return &Result{Status: http.StatusInternalServerError, Err: err}
	}
	defer s.gate.Release(1)

	// 2. 随机抖动，打散请求节奏
	if err := s.jitter(ctx); err != nil {
		return &Result{Status: http.StatusInternalServerError, Err: err}
	}

	req := s.httpClient().R().SetContext(ctx)

	// 调用方没给 UA 时注入随机 UA
	if opt.Headers == nil || opt.Headers["User-Agent"] == "" {
		req.SetHeader("User-Agent", s.RandomUA())
	}
	if len(opt.Headers) > 0 {
		req.SetHeaders(opt.Headers)
	}
	if len(opt.Params) > 0 {
		req.SetQueryParams(opt.Params)
	}
	for name, value := range opt.Cookies {
		req.SetCookie(&http.Cookie{Name: name, Value: value})
	}
	if opt.Body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(opt.Body)
	}

	var resp *resty.Response
	var err error
	if method == http.MethodPost {
		resp, err = req.Post(url)
	} else {
		resp, err = req.Get(url)
	}
	if err != nil {
		// 传输层故障折叠成 500
		s.log.Error("HTTP 请求失败",
			zap.String("method", method), zap.String("url", url), zap.Error(err))
		return &Result{Status: http.StatusInternalServerError, Err: err}
	}

	res := &Result{
		Status:  resp.StatusCode(),
		RawBody: resp.String(),
		Cookies: make(map[string]string),
	}
	for _, c := range resp.Cookies() {
		res.Cookies[c.Name] = c.Value
	}

	// 3. 先查反爬拦截，再做结构化解析（拦截页不是合法 JSON）
	if antibot.IsBlocked(res.RawBody) {
		res.Blocked = true
		s.log.Warn("命中反爬拦截页",
			zap.String("url", url), zap.Int("status", res.Status))
		return res
	}

	// 4. 结构化解析；失败不致命，状态码原样返回，由调用方定夺
	if opt.Out != nil && res.RawBody != "" {
		if derr := json.Unmarshal([]byte(res.RawBody), opt.Out); derr != nil {
			s.log.Warn("JSON 解析失败",
				zap.String("url", url), zap.Int("status", res.Status), zap.Error(derr))
			res.Err = derr
		}
	}
	return res
}

// Close 释放底层连接资源
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.GetClient().CloseIdleConnections()
		s.client = nil
	}
}

// ==================== 内部 ====================

// httpClient 惰性建立底层 resty 客户端
func (s *Session) httpClient() *resty.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client
	}

	client := resty.New().
		SetTimeout(s.opts.Timeout)

	tr := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
	if s.opts.HTTPVersion == "v1" {
		// 清空 TLSNextProto 禁用 HTTP/2，贴近站点 PC 端的协商结果
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}
	client.SetTransport(tr)

	if s.opts.ProxyURL != "" {
		client.SetProxy(s.opts.ProxyURL)
	}

	// 浏览器指纹伪装：补齐普通浏览器的标准头并调整 TLS 握手特征
	// 必须在 SetProxy 之后包装，否则 resty 找不到原生 Transport
	if s.opts.Impersonate != "off" {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	s.client = client
	return s.client
}

// jitter 随机延迟；JitterMax<=0 时跳过（测试用）
func (s *Session) jitter(ctx context.Context) error {
	if s.opts.JitterMax <= 0 {
		return nil
	}
	d := s.opts.JitterMin
	if span := s.opts.JitterMax - s.opts.JitterMin; span > 0 {
		d += randDuration(span)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
