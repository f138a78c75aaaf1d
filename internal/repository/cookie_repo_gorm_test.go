package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func setupGormRepo(t *testing.T) *GormCookieRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	repo, err := NewGormCookieRepository(db)
	require.NoError(t, err)
	return repo
}

// ==================== 测试用例 ====================

func TestGormRepo_SaveLoad(t *testing.T) {
	repo := setupGormRepo(t)
	ctx := context.Background()

	cookies := map[string]string{"_ceo_v2_gk_sid": "sid-1", "device_id": "d-9"}
	require.NoError(t, repo.Save(ctx, "acc", cookies))

	got, ok, err := repo.Load(ctx, "acc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cookies, got)
}

func TestGormRepo_UpsertLastWriteWins(t *testing.T) {
	repo := setupGormRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "acc", map[string]string{"sid": "old"}))
	require.NoError(t, repo.Save(ctx, "acc", map[string]string{"sid": "new"}))

	got, ok, err := repo.Load(ctx, "acc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got["sid"])

	// 同账号覆盖，不产生第二行
	var count int64
	repo.db.Model(&CookieRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGormRepo_ExpiredTreatedAsAbsent(t *testing.T) {
	repo := setupGormRepo(t)
	ctx := context.Background()

	base := time.Now()
	repo.SetClock(func() time.Time { return base })
	require.NoError(t, repo.Save(ctx, "acc", map[string]string{"k": "v"}))

	repo.SetClock(func() time.Time { return base.Add(2 * time.Hour) })
	got, ok, err := repo.Load(ctx, "acc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestGormRepo_MissingAccount(t *testing.T) {
	repo := setupGormRepo(t)

	_, ok, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormRepo_Sweep(t *testing.T) {
	repo := setupGormRepo(t)
	ctx := context.Background()

	base := time.Now()
	repo.SetClock(func() time.Time { return base })
	require.NoError(t, repo.Save(ctx, "stale-1", map[string]string{"k": "v"}))
	require.NoError(t, repo.Save(ctx, "stale-2", map[string]string{"k": "v"}))

	repo.SetClock(func() time.Time { return base.Add(2 * time.Hour) })
	require.NoError(t, repo.Save(ctx, "fresh", map[string]string{"k": "v"}))

	removed, err := repo.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, ok, _ := repo.Load(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = repo.Load(ctx, "stale-1")
	assert.False(t, ok)
}
