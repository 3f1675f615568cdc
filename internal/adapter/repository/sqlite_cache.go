package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github-portfolio-analyzer/internal/adapter/cache"
	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath 打开一个进程内的 SQLite 数据库
const MemoryPath = ":memory:"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS report_cache (
		cache_key  TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		payload    TEXT NOT NULL, -- JSON report
		expires_at INTEGER NOT NULL, -- unix nanoseconds
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_cache_expires ON report_cache(expires_at)`,
}

// SQLiteCache 是本地单文件的 port.ReportCache 实现，没有配置 Postgres 时使用
type SQLiteCache struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// NewSQLiteCache 打开 (或创建) path 处的数据库并建表
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, common.WrapError(common.ErrCodeDatabase, "创建缓存目录失败", err)
		}
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "打开缓存数据库失败", err)
	}
	db.SetMaxOpenConns(1) // SQLite 单写者

	c := &SQLiteCache{db: db, nowFunc: time.Now}
	if err := c.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(common.ErrCodeDatabase, "缓存表迁移失败", err)
		}
	}
	return nil
}

func (c *SQLiteCache) now() time.Time {
	if c.nowFunc == nil {
		return time.Now()
	}
	return c.nowFunc()
}

// Get 读取未过期的报告
func (c *SQLiteCache) Get(ctx context.Context, key string) (*domain.Report, bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM report_cache WHERE cache_key = ? AND expires_at > ?`,
		key, c.now().UnixNano(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, common.WrapError(common.ErrCodeDatabase, "读取缓存失败", err)
	}

	report, err := cache.DecodeReport([]byte(payload))
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// Set 写入或覆盖一份报告
func (c *SQLiteCache) Set(ctx context.Context, key string, report *domain.Report, ttl time.Duration) error {
	payload, err := cache.EncodeReport(report)
	if err != nil {
		return err
	}

	now := c.now()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO report_cache (cache_key, username, payload, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			username = excluded.username,
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		key, report.Username, string(payload), now.Add(ttl).UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "写入缓存失败", err)
	}
	return nil
}

// PurgeExpired 删除所有过期报告，返回删除条数
func (c *SQLiteCache) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM report_cache WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, common.WrapError(common.ErrCodeDatabase, "清理缓存失败", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.WrapError(common.ErrCodeDatabase, "清理缓存失败", err)
	}
	return n, nil
}

// Close 关闭数据库
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
