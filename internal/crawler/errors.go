package crawler

import (
	"errors"
	"fmt"
	"net/http"
)

// ==================== 失败类别 ====================

// Kind 爬取失败类别（闭集）
// 状态机与流水线只通过这些具名出口向上表达失败，
// API 层按类别映射响应码，不需要分辨底层是传输故障还是协议违例。
type Kind string

const (
	// KindLoginFailed 凭证错误或本地加密前置条件失败，不自动重试
	KindLoginFailed Kind = "LOGIN_FAILED"
	// KindRecaptchaRequired 上游要求人机验证，无头流程终止
	KindRecaptchaRequired Kind = "NEED_RECAPTCHA"
	// KindStructureChanged 上游契约漂移，重试无意义，需要人工跟进
	KindStructureChanged Kind = "STRUCTURE_CHANGED"
	// KindAccessBlocked 命中反爬拦截页，本次终止
	KindAccessBlocked Kind = "ACCESS_BLOCKED"
	// KindUpstreamRequest 具体接口非 200，携带状态码与上下文
	KindUpstreamRequest Kind = "UPSTREAM_REQUEST_FAILED"
)

// Error 爬虫域错误
type Error struct {
	Kind    Kind
	Code    int // 建议映射的 HTTP 响应码
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf 取错误类别；非域错误返回空串
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// CodeOf 取建议响应码；非域错误按 500 处理
func CodeOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}

// ==================== 构造函数 ====================

func errLoginFailed(msg string) *Error {
	return &Error{Kind: KindLoginFailed, Code: http.StatusUnauthorized, Message: msg}
}

func errRecaptcha(msg string) *Error {
	return &Error{Kind: KindRecaptchaRequired, Code: http.StatusUnauthorized, Message: msg}
}

func errStructureChanged(msg string) *Error {
	return &Error{Kind: KindStructureChanged, Code: http.StatusInternalServerError, Message: msg}
}

func errAccessBlocked(msg string) *Error {
	return &Error{Kind: KindAccessBlocked, Code: http.StatusForbidden, Message: msg}
}

func errUpstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstreamRequest, Code: http.StatusBadGateway, Message: msg, cause: cause}
}
