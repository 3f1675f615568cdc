package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github-portfolio-analyzer/internal/adapter/cache"
	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cachedReport 是 report_cache 表的一行
type cachedReport struct {
	CacheKey  string    `gorm:"primaryKey;size:255"`
	Username  string    `gorm:"size:64;index"`
	Payload   string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (cachedReport) TableName() string {
	return "report_cache"
}

// PostgresCache 实现了 port.ReportCache 接口
type PostgresCache struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

// NewPostgresCache 初始化数据库连接并自动迁移表结构
func NewPostgresCache(dsn string) (*PostgresCache, error) {
	// 1. 连接数据库
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "连接数据库失败", err)
	}

	// 2. 自动迁移，创建 report_cache 表
	if err := db.AutoMigrate(&cachedReport{}); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "数据库迁移失败", err)
	}

	return &PostgresCache{db: db, nowFunc: time.Now}, nil
}

func (c *PostgresCache) now() time.Time {
	if c.nowFunc == nil {
		return time.Now().UTC()
	}
	return c.nowFunc().UTC()
}

// Get 读取未过期的报告
func (c *PostgresCache) Get(ctx context.Context, key string) (*domain.Report, bool, error) {
	var row cachedReport
	err := c.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, c.now()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, common.WrapError(common.ErrCodeDatabase, "读取缓存失败", err)
	}

	report, err := cache.DecodeReport([]byte(row.Payload))
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// Set 写入或覆盖一份报告，单条 upsert 语句保证读者只看到完整的行
func (c *PostgresCache) Set(ctx context.Context, key string, report *domain.Report, ttl time.Duration) error {
	payload, err := cache.EncodeReport(report)
	if err != nil {
		return err
	}

	now := c.now()
	row := cachedReport{
		CacheKey:  key,
		Username:  report.Username,
		Payload:   string(payload),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "payload", "expires_at", "created_at"}),
	}).Create(&row).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "写入缓存失败", err)
	}
	return nil
}

// PurgeExpired 删除所有过期报告，返回删除条数
func (c *PostgresCache) PurgeExpired(ctx context.Context) (int64, error) {
	result := c.db.WithContext(ctx).Where("expires_at <= ?", c.now()).Delete(&cachedReport{})
	if result.Error != nil {
		return 0, common.WrapError(common.ErrCodeDatabase, "清理缓存失败", result.Error)
	}
	return result.RowsAffected, nil
}

// Close 关闭底层连接
func (c *PostgresCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("获取数据库连接失败: %w", err)
	}
	return sqlDB.Close()
}
