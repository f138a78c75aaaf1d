package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baemin_crawler_v1_202601/internal/config"
	"baemin_crawler_v1_202601/internal/controller"
	"baemin_crawler_v1_202601/internal/crawler"
	"baemin_crawler_v1_202601/internal/middleware"
	"baemin_crawler_v1_202601/internal/repository"
	"baemin_crawler_v1_202601/internal/router"
	"baemin_crawler_v1_202601/internal/session"
	"baemin_crawler_v1_202601/internal/task"
	"baemin_crawler_v1_202601/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空走默认查找）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	log, err := logger.Init(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.Mode)

	// 3. 初始化依赖
	deps, err := initDependencies(cfg)
	if err != nil {
		log.Fatal("依赖初始化失败", zap.Error(err))
	}

	// 4. 启动定时任务
	sweepTask := task.NewCookieSweepTask(deps.CookieRepo)
	sweepTask.Start()
	defer sweepTask.Stop()

	// 5. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(r, cfg.Server.Port, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	CookieRepo  repository.CookieRepository
	Controllers *router.Controllers
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config) (*Dependencies, error) {
	// -------- Cookie 仓库 --------
	cookieRepo, err := initCookieRepo(cfg.Cookie)
	if err != nil {
		return nil, err
	}

	// -------- 爬虫工厂 --------
	// Session 按请求构建：每次操作独立的并发闸门与连接池，
	// 请求结束随 cleanup 释放。
	factory := func() (*crawler.Crawler, func()) {
		sess := session.New(session.Options{
			Timeout:       cfg.Crawler.Timeout,
			Impersonate:   cfg.Crawler.Impersonate,
			HTTPVersion:   cfg.Crawler.HTTPVersion,
			ProxyURL:      cfg.Crawler.ProxyURL,
			MaxConcurrent: cfg.Crawler.MaxConcurrent,
			JitterMin:     cfg.Crawler.JitterMin(),
			JitterMax:     cfg.Crawler.JitterMax(),
		})
		cr := crawler.New(sess, cookieRepo)
		if cfg.Crawler.MemberBaseURL != "" {
			cr.MemberBaseURL = cfg.Crawler.MemberBaseURL
		}
		if cfg.Crawler.APIBaseURL != "" {
			cr.APIBaseURL = cfg.Crawler.APIBaseURL
		}
		return cr, sess.Close
	}

	// -------- Controller 层 --------
	limiter := middleware.NewCrawlRateLimiter()
	cooldown := time.Duration(cfg.Crawler.CooldownSec) * time.Second
	controllers := &router.Controllers{
		Login: controller.NewLoginController(factory),
		Order: controller.NewOrderController(factory, limiter, cooldown),
	}

	return &Dependencies{
		CookieRepo:  cookieRepo,
		Controllers: controllers,
	}, nil
}

// initCookieRepo 按驱动选择 Cookie 仓库实现
func initCookieRepo(cfg config.CookieConfig) (repository.CookieRepository, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("postgres 连接失败: %w", err)
		}
		return repository.NewGormCookieRepository(db)
	case "memory":
		return repository.NewMemoryCookieRepository(), nil
	case "file", "":
		return repository.NewFileCookieRepository(cfg.BaseDir)
	default:
		return nil, fmt.Errorf("未知的 cookie 驱动: %s", cfg.Driver)
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务并等待退出信号
func startServer(r *gin.Engine, port int, log *zap.Logger) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("服务启动", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务强制关闭", zap.Error(err))
	}

	log.Info("服务已退出")
}
