package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"baemin_crawler_v1_202601/internal/dto"
	"baemin_crawler_v1_202601/internal/session"
	"baemin_crawler_v1_202601/pkg/rsacrypt"

	"go.uber.org/zap"
)

// ==================== 登录状态机 ====================

// loginState 登录流程状态
// INIT → TAG_FETCHED → ENCRYPTED → SUBMITTED → COOKIE_EXTRACTED → SAVED
// 失败出口：NEED_RECAPTCHA / STRUCTURE_CHANGED / LOGIN_FAILED / ACCESS_BLOCKED
type loginState string

const (
	stateInit            loginState = "INIT"
	stateTagFetched      loginState = "TAG_FETCHED"
	stateEncrypted       loginState = "ENCRYPTED"
	stateSubmitted       loginState = "SUBMITTED"
	stateCookieExtracted loginState = "COOKIE_EXTRACTED"
	stateSaved           loginState = "SAVED"
)

// sessionCookieName 登录成功后必须出现的会话 Cookie
// 上游报成功而这个 Cookie 不在，说明成功信号和 Cookie 契约脱钩了，
// 按上游结构变更处理。
const sessionCookieName = "_ceo_v2_gk_sid"

// dummyPasswordLength 伪装明文密码长度
const dummyPasswordLength = 60

// initHeaders 登录初始化请求头
func initHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json, text/plain, */*",
		"Referer":    "https://biz-member.baemin.com/login",
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:144.0) Gecko/20100101 Firefox/144.0",
	}
}

// loginHeaders 登录提交请求头
func loginHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json, text/plain, */*",
		"Content-Type": "application/json",
		"Origin":       "https://biz-member.baemin.com",
		"Referer":      "https://biz-member.baemin.com/login",
		"User-Agent":   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:144.0) Gecko/20100101 Firefox/144.0",
	}
}

// fetchTag 登录初始化，取回本次会话的 RSA 模数 (tag)
func (c *Crawler) fetchTag(ctx context.Context) (string, error) {
	var out dto.LoginInitResponse
	res := c.sess.Get(ctx, c.MemberBaseURL+"/v1/login/init", session.ReqOptions{
		Headers: initHeaders(),
		Params:  map[string]string{"__ts": strconv.FormatInt(time.Now().UnixMilli(), 10)},
		Out:     &out,
	})

	c.log.Info("登录初始化完成", zap.Int("status", res.Status), zap.Bool("blocked", res.Blocked))

	if res.Blocked {
		return "", errAccessBlocked("登录初始化命中反爬拦截页")
	}
	if res.Status != http.StatusOK {
		return "", errStructureChanged(fmt.Sprintf("登录初始化接口异常: HTTP %d", res.Status))
	}
	if out.Data.NeedRecaptcha {
		return "", errRecaptcha("上游要求 Recaptcha 人机验证")
	}
	if out.Data.Tag == "" {
		return "", errStructureChanged("tag 缺失，疑似上游结构变更")
	}
	return out.Data.Tag, nil
}

// Login 执行完整登录流程并返回会话 Cookie
// 1) 取 tag  2) RSA 加密  3) 提交登录  4) 提取 Cookie  5) 写入缓存
func (c *Crawler) Login(ctx context.Context, id, pw string) (map[string]string, error) {
	state := stateInit

	// --------- INIT → TAG_FETCHED ---------
	tag, err := c.fetchTag(ctx)
	if err != nil {
		return nil, err
	}
	state = stateTagFetched

	// --------- TAG_FETCHED → ENCRYPTED ---------
	n, ok := rsacrypt.ParseTag(tag)
	if !ok {
		return nil, errStructureChanged("tag 不是合法的十六进制模数")
	}
	enc := rsacrypt.NewEncryptor(n)

	encID := enc.Encrypt(id)
	encPW := enc.Encrypt(pw)
	if encID == "" || encPW == "" {
		// 本地前置条件失败（明文放不进填充块），不是上游拒绝
		return nil, errLoginFailed("RSA 加密失败")
	}
	state = stateEncrypted

	// --------- ENCRYPTED → SUBMITTED ---------
	// 真实密码只走 value2 密文字段；pw 字段放同长伪装串满足表单契约
	payload := dto.LoginPayload{
		ID:        id,
		PW:        rsacrypt.GenerateDummyPassword(dummyPasswordLength),
		Value1:    encID,
		Value2:    encPW,
		Token:     "",
		AutoLogin: false,
	}

	loginURL := fmt.Sprintf("%s/v1/login?__ts=%d", c.MemberBaseURL, time.Now().UnixMilli())

	var out dto.LoginResponse
	res := c.sess.Post(ctx, loginURL, session.ReqOptions{
		Headers: loginHeaders(),
		Body:    payload,
		Out:     &out,
	})

	c.log.Info("登录提交完成",
		zap.String("account_id", id),
		zap.Int("status", res.Status),
		zap.String("upstream_status", out.Status))

	if res.Blocked {
		return nil, errAccessBlocked("登录提交命中反爬拦截页")
	}
	if res.Status != http.StatusOK || out.Status != dto.LoginStatusSuccess {
		return nil, errLoginFailed("账号或密码错误")
	}
	state = stateSubmitted

	// --------- SUBMITTED → COOKIE_EXTRACTED ---------
	cookies := res.Cookies
	if _, ok := cookies[sessionCookieName]; !ok {
		return nil, errStructureChanged("登录成功但缺少必需会话 Cookie，疑似上游结构变更")
	}
	state = stateCookieExtracted

	// --------- COOKIE_EXTRACTED → SAVED ---------
	if err := c.cookies.Save(ctx, id, cookies); err != nil {
		return nil, fmt.Errorf("保存 Cookie 失败: %w", err)
	}
	state = stateSaved

	c.log.Info("登录完成，Cookie 已缓存",
		zap.String("account_id", id), zap.String("state", string(state)))
	return cookies, nil
}
