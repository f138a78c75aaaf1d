package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 服务配置 ====================

// Config 进程配置
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Cookie  CookieConfig  `mapstructure:"cookie"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin 模式: debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Mode  string `mapstructure:"mode"`  // dev / prod
	Level string `mapstructure:"level"` // debug / info / warn / error
}

// CrawlerConfig 抓取传输配置
type CrawlerConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	Impersonate   string        `mapstructure:"impersonate"`  // chrome / off
	HTTPVersion   string        `mapstructure:"http_version"` // v1 强制 HTTP/1.1
	ProxyURL      string        `mapstructure:"proxy_url"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
	JitterMinMs   int           `mapstructure:"jitter_min_ms"`
	JitterMaxMs   int           `mapstructure:"jitter_max_ms"`

	// 基址覆盖，留空用线上默认
	MemberBaseURL string `mapstructure:"member_base_url"`
	APIBaseURL    string `mapstructure:"api_base_url"`

	// 同账号抓取冷却（防止调用方高频触发）
	CooldownSec int `mapstructure:"cooldown_sec"`
}

// CookieConfig Cookie 仓库配置
type CookieConfig struct {
	Driver  string `mapstructure:"driver"` // file / postgres / memory
	BaseDir string `mapstructure:"base_dir"`
	DSN     string `mapstructure:"dsn"`
}

// Load 读取配置文件 + 环境变量覆盖
// 查找顺序：显式路径 > ./config.yaml > /etc/baemin-crawler/config.yaml
// 环境变量前缀 BAEMIN，点号换下划线，如 BAEMIN_CRAWLER_PROXY_URL
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/baemin-crawler")
	}

	v.SetEnvPrefix("BAEMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失允许：全走默认值 + 环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults 默认值与 §文档口径保持一致
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "info")

	v.SetDefault("crawler.timeout", "30s")
	v.SetDefault("crawler.impersonate", "chrome")
	v.SetDefault("crawler.http_version", "v1")
	v.SetDefault("crawler.max_concurrent", 3)
	v.SetDefault("crawler.jitter_min_ms", 200)
	v.SetDefault("crawler.jitter_max_ms", 800)
	v.SetDefault("crawler.cooldown_sec", 30)

	v.SetDefault("cookie.driver", "file")
	v.SetDefault("cookie.base_dir", "/tmp/baemin_cookies")
}

// JitterMin 抖动下界
func (c CrawlerConfig) JitterMin() time.Duration {
	return time.Duration(c.JitterMinMs) * time.Millisecond
}

// JitterMax 抖动上界
func (c CrawlerConfig) JitterMax() time.Duration {
	return time.Duration(c.JitterMaxMs) * time.Millisecond
}
