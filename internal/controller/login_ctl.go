package controller

import (
	"net/http"

	"baemin_crawler_v1_202601/internal/crawler"
	"baemin_crawler_v1_202601/internal/dto"

	"github.com/gin-gonic/gin"
)

// CrawlerFactory 按请求构造爬虫实例
// Session 生命周期与单次请求一致，返回的 cleanup 负责释放连接。
type CrawlerFactory func() (*crawler.Crawler, func())

type LoginController struct {
	newCrawler CrawlerFactory
}

func NewLoginController(factory CrawlerFactory) *LoginController {
	return &LoginController{
		newCrawler: factory,
	}
}

// Login 登录并缓存会话 Cookie
// POST /baemin/login
func (c *LoginController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	cr, cleanup := c.newCrawler()
	defer cleanup()

	cookies, err := cr.Login(ctx.Request.Context(), req.ID, req.PW)
	if err != nil {
		code := crawler.CodeOf(err)
		ctx.JSON(code, gin.H{"code": code, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "login success",
		"cookies": cookies,
	})
}
