package router

import (
	"baemin_crawler_v1_202601/internal/controller"
	"baemin_crawler_v1_202601/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers 控制器集合
type Controllers struct {
	Login *controller.LoginController
	Order *controller.OrderController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// baemin 商家后台抓取
	baemin := r.Group("/baemin")
	{
		// POST /baemin/login
		baemin.POST("/login", ctls.Login.Login)

		// POST /baemin/orders
		baemin.POST("/orders", ctls.Order.FetchOrders)
	}

	return r
}
