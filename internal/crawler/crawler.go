package crawler

import (
	"baemin_crawler_v1_202601/internal/repository"
	"baemin_crawler_v1_202601/internal/session"

	"go.uber.org/zap"
)

// ==================== Crawler 爬虫服务 ====================

// 上游站点基址。测试/预发可通过字段覆盖。
const (
	defaultMemberBaseURL = "https://biz-member.baemin.com"
	defaultAPIBaseURL    = "https://self-api.baemin.com"
)

// pageLimit 订单列表单页条数（上游固定上限）
const pageLimit = 100

// orderStatuses 聚合抓取覆盖的订单状态集合
var orderStatuses = []string{"ACCEPTED", "CLOSED", "CANCELLED"}

// Crawler 面向一次操作的爬虫服务
// 一个 Crawler 绑定一个 Session；同一流水线内的并发分页共享
// 该 Session 的并发闸门，不同操作各建实例。
type Crawler struct {
	sess    *session.Session
	cookies repository.CookieRepository
	log     *zap.Logger

	// 基址可覆盖（测试桩用 httptest 地址替换）
	MemberBaseURL string
	APIBaseURL    string
}

// New 创建爬虫服务
func New(sess *session.Session, cookies repository.CookieRepository) *Crawler {
	return &Crawler{
		sess:          sess,
		cookies:       cookies,
		log:           zap.L().Named("crawler"),
		MemberBaseURL: defaultMemberBaseURL,
		APIBaseURL:    defaultAPIBaseURL,
	}
}
