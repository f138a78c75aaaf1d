package antibot

import "strings"

// ==================== 反爬拦截页识别 ====================

// 拦截页特征串。站点识别到自动化流量时不会返回 JSON，
// 而是返回一张 HTML 质询页（通常 HTTP 403）。
// 特征匹配必须在任何 JSON 解析之前执行，否则拦截会被误报成解析失败。
const (
	sigSecurityTitle    = "<title>보안 위반 페이지</title>" // 安全违规标题
	sigMalformedRequest = "비정상적인 형식의 요청"             // “异常格式的请求”
	sigPageUnavailable  = "페이지를 볼 수 없습니다"            // “无法查看页面”
	sigHTMLDocument     = "<!DOCTYPE html>"
)

// IsBlocked 判断响应体是否为反爬拦截页
// 纯函数，大小写敏感的子串包含；允许少量误判，但必须先于解析执行。
func IsBlocked(body string) bool {
	if strings.Contains(body, sigSecurityTitle) {
		return true
	}
	if strings.Contains(body, sigMalformedRequest) {
		return true
	}
	// “无法查看页面”短语单独出现不足以判定，要求同时是完整 HTML 文档
	if strings.Contains(body, sigPageUnavailable) && strings.Contains(body, sigHTMLDocument) {
		return true
	}
	return false
}
