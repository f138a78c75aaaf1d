package task

import (
	"context"
	"time"

	"baemin_crawler_v1_202601/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== Cookie 清理任务 ====================

// CookieSweepTask 定时清理过期会话 Cookie
// Cookie 读取路径本身做惰性过期判断，这里兜底回收磁盘/表里的陈旧条目。
type CookieSweepTask struct {
	repo repository.CookieRepository
	cron *cron.Cron
	log  *zap.Logger
}

func NewCookieSweepTask(repo repository.CookieRepository) *CookieSweepTask {
	return &CookieSweepTask{
		repo: repo,
		cron: cron.New(cron.WithSeconds()), // 支持秒级控制
		log:  zap.L().Named("task.cookie"),
	}
}

// Start 启动定时任务
func (t *CookieSweepTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.sweepJob(ctx)
	}()

	// 每小时整点清理一次
	_, err := t.cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.sweepJob(ctx)
	})
	if err != nil {
		t.log.Fatal("无法启动 Cookie 清理任务", zap.Error(err))
	}

	t.cron.Start()
	t.log.Info("Cookie 清理任务已启动 (每小时一次)")
}

// Stop 停止定时任务，等待在途执行结束
func (t *CookieSweepTask) Stop() {
	<-t.cron.Stop().Done()
	t.log.Info("Cookie 清理任务已停止")
}

// sweepJob 清理逻辑
func (t *CookieSweepTask) sweepJob(ctx context.Context) {
	removed, err := t.repo.Sweep(ctx)
	if err != nil {
		t.log.Warn("Cookie 清理失败", zap.Error(err))
		return
	}
	if removed > 0 {
		t.log.Info("Cookie 清理完成", zap.Int64("removed", removed))
	}
}
