package controller

import (
	"net/http"
	"time"

	"baemin_crawler_v1_202601/internal/crawler"
	"baemin_crawler_v1_202601/internal/dto"
	"baemin_crawler_v1_202601/internal/middleware"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	newCrawler CrawlerFactory
	limiter    *middleware.CrawlRateLimiter
	cooldown   time.Duration
}

func NewOrderController(factory CrawlerFactory, limiter *middleware.CrawlRateLimiter, cooldown time.Duration) *OrderController {
	return &OrderController{
		newCrawler: factory,
		limiter:    limiter,
		cooldown:   cooldown,
	}
}

// FetchOrders 聚合抓取时间窗内全部门店订单
// POST /baemin/orders
func (c *OrderController) FetchOrders(ctx *gin.Context) {
	var req dto.OrdersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	// 同账号冷却：聚合抓取对上游是一大批请求，密集触发只会加速风控
	if c.limiter != nil && c.cooldown > 0 {
		result := c.limiter.Check(middleware.AccountKey(req.ID), c.cooldown)
		if !result.Allowed {
			ctx.JSON(http.StatusTooManyRequests, gin.H{
				"code":        429,
				"message":     "操作过于频繁，请稍后再试",
				"retry_after": int(result.RetryAfter/time.Second) + 1,
			})
			return
		}
	}

	cr, cleanup := c.newCrawler()
	defer cleanup()

	orders, err := cr.FetchAllOrders(ctx.Request.Context(), req.ID, req.PW, req.Start, req.End)
	if err != nil {
		code := crawler.CodeOf(err)
		ctx.JSON(code, gin.H{"code": code, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": orders,
	})
}
