package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 数据库实现 ====================

// CookieRecord Cookie 记录表
type CookieRecord struct {
	AccountID string         `gorm:"primaryKey;size:128"`
	Cookies   datatypes.JSON `gorm:"not null"`
	SavedAt   time.Time      `gorm:"index;not null"`
}

// TableName 表名
func (CookieRecord) TableName() string { return "baemin_cookies" }

// GormCookieRepository 数据库仓库（生产 Postgres，测试 SQLite 内存库）
type GormCookieRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormCookieRepository 创建仓库并迁移表结构
func NewGormCookieRepository(db *gorm.DB) (*GormCookieRepository, error) {
	if err := db.AutoMigrate(&CookieRecord{}); err != nil {
		return nil, fmt.Errorf("迁移 Cookie 表失败: %w", err)
	}
	return &GormCookieRepository{
		db:  db,
		ttl: CookieTTL,
		now: time.Now,
	}, nil
}

// SetClock 注入时钟（测试用）
func (r *GormCookieRepository) SetClock(now func() time.Time) { r.now = now }

// SetTTL 覆盖默认 TTL
func (r *GormCookieRepository) SetTTL(ttl time.Duration) { r.ttl = ttl }

// Save upsert，同账号 last-write-wins
func (r *GormCookieRepository) Save(ctx context.Context, accountID string, cookies map[string]string) error {
	data, err := json.Marshal(cookies)
	if err != nil {
		return err
	}
	record := CookieRecord{
		AccountID: accountID,
		Cookies:   datatypes.JSON(data),
		SavedAt:   r.now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cookies", "saved_at"}),
		}).
		Create(&record).Error
}

// Load 读取；过期或缺失返回 (nil, false, nil)
func (r *GormCookieRepository) Load(ctx context.Context, accountID string) (map[string]string, bool, error) {
	var record CookieRecord
	err := r.db.WithContext(ctx).First(&record, "account_id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if r.now().Sub(record.SavedAt) > r.ttl {
		return nil, false, nil
	}

	cookies := make(map[string]string)
	if err := json.Unmarshal(record.Cookies, &cookies); err != nil {
		// 脏记录视为不存在，等下次登录覆盖
		return nil, false, nil
	}
	return cookies, true, nil
}

// Sweep 批量删除过期记录
func (r *GormCookieRepository) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.ttl)
	res := r.db.WithContext(ctx).
		Where("saved_at < ?", cutoff).
		Delete(&CookieRecord{})
	return res.RowsAffected, res.Error
}
