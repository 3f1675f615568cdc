package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 是进程级配置，所有凭证都是可选的
type Config struct {
	// 访问 GitHub 的 token，只影响限流额度，不影响评分
	GitHubToken string `mapstructure:"github_token"`
	// 设置后启用生成式评估，为空时规则评估是权威结果
	GeminiAPIKey         string `mapstructure:"gemini_api_key"`
	GeminiModel          string `mapstructure:"gemini_model"`
	GeminiEmbeddingModel string `mapstructure:"gemini_embedding_model"`

	CacheTTLHours int `mapstructure:"cache_ttl_hours"`
	// 设置后使用 Postgres 缓存，否则使用 CachePath 指向的 SQLite 文件
	DatabaseDSN string `mapstructure:"database_dsn"`
	// "memory" 表示进程内缓存
	CachePath string `mapstructure:"cache_path"`

	FetchConcurrency   int     `mapstructure:"fetch_concurrency"`
	FetchRatePerSecond float64 `mapstructure:"fetch_rate_per_second"`

	FeishuWebhook string `mapstructure:"feishu_webhook"`
	LogLevel      string `mapstructure:"log_level"`
}

// CacheTTL converts the configured hour count to a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Cache backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// MemoryCachePath selects the in-process cache when used as CACHE_PATH.
const MemoryCachePath = "memory"

// CacheBackend picks the report cache: Postgres when a DSN is set, otherwise
// SQLite at CachePath, or memory when CachePath is "memory".
func (c *Config) CacheBackend() string {
	switch {
	case c.DatabaseDSN != "":
		return BackendPostgres
	case strings.EqualFold(c.CachePath, MemoryCachePath):
		return BackendMemory
	default:
		return BackendSQLite
	}
}

// DefaultCachePath ~/.portfolio-analyzer/cache.db，取不到 home 时用当前目录
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".portfolio-analyzer", "cache.db")
	}
	return filepath.Join(home, ".portfolio-analyzer", "cache.db")
}

// GenerativeEnabled reports whether a generative backend key is present.
func (c *Config) GenerativeEnabled() bool {
	return c.GeminiAPIKey != ""
}

var keys = []string{
	"github_token",
	"gemini_api_key",
	"gemini_model",
	"gemini_embedding_model",
	"cache_ttl_hours",
	"database_dsn",
	"cache_path",
	"fetch_concurrency",
	"fetch_rate_per_second",
	"feishu_webhook",
	"log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github_token", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_embedding_model", "text-embedding-004")
	v.SetDefault("cache_ttl_hours", 24)
	v.SetDefault("database_dsn", "")
	v.SetDefault("cache_path", "")
	v.SetDefault("fetch_concurrency", 3)
	v.SetDefault("fetch_rate_per_second", 10.0)
	v.SetDefault("feishu_webhook", "")
	v.SetDefault("log_level", "info")
}

// Load reads .env (if present), the optional config file and the environment,
// in increasing order of precedence. Environment keys are the upper-case
// forms of the mapstructure tags, e.g. GITHUB_TOKEN.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	// Unmarshal only sees env values for keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("binding %s: %w", k, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.CacheTTLHours <= 0 {
		c.CacheTTLHours = 24
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 3
	}
	if c.FetchRatePerSecond < 0 {
		c.FetchRatePerSecond = 0
	}
	if c.CachePath == "" {
		c.CachePath = DefaultCachePath()
	}
}

// NewLogger builds the process logger at the configured level. Unknown
// levels fall back to info.
func NewLogger(level string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}
