package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/imattdu/converter/logx"
)

// EnvPrefix 环境变量覆盖前缀，例如 CONVERTER_RETRY_MAX_RETRIES=5
const EnvPrefix = "CONVERTER_"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	App     AppConfig     `yaml:"app"`
	Retry   RetryConfig   `yaml:"retry"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AppConfig struct {
	JSONContentType string `yaml:"json_content_type"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"` // 退避单位，第 n 次重试等待 2^n * base_delay
}

type StorageConfig struct {
	Dir     string        `yaml:"dir"`      // 本地输入目录
	BaseURL string        `yaml:"base_url"` // 非空时从远端读取输入
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Driver     string `yaml:"driver"` // file | zap
	AppName    string `yaml:"app_name"`
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	Console    bool   `yaml:"console"`
	Colored    bool   `yaml:"colored"`
	Rotate     string `yaml:"rotate"` // hourly | size
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		App:    AppConfig{JSONContentType: "application/json"},
		Retry:  RetryConfig{MaxRetries: 3, BaseDelay: time.Second},
		Storage: StorageConfig{
			Dir:     "data",
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Driver:     "file",
			AppName:    "converter",
			Level:      "info",
			Dir:        "logs",
			Console:    true,
			Rotate:     "hourly",
			MaxBackups: 24,
		},
	}
}

// Load 默认值 <- yaml 文件（path 为空则跳过）<- .env <- 环境变量
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env 不存在不算错误
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
		}
		*dst = d
		return nil
	}

	str("SERVER_ADDR", &c.Server.Addr)
	str("APP_JSON_CONTENT_TYPE", &c.App.JSONContentType)
	str("STORAGE_DIR", &c.Storage.Dir)
	str("STORAGE_BASE_URL", &c.Storage.BaseURL)
	str("LOG_DRIVER", &c.Log.Driver)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_DIR", &c.Log.Dir)

	return errors.Join(
		num("RETRY_MAX_RETRIES", &c.Retry.MaxRetries),
		dur("RETRY_BASE_DELAY", &c.Retry.BaseDelay),
		dur("STORAGE_TIMEOUT", &c.Storage.Timeout),
		dur("SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout),
	)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.App.JSONContentType == "" {
		errs = append(errs, errors.New("app.json_content_type is required"))
	}
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("retry.max_retries must be >= 0, got %d", c.Retry.MaxRetries))
	}
	if c.Retry.BaseDelay <= 0 {
		errs = append(errs, fmt.Errorf("retry.base_delay must be > 0, got %s", c.Retry.BaseDelay))
	}
	if c.Storage.Dir == "" && c.Storage.BaseURL == "" {
		errs = append(errs, errors.New("storage.dir or storage.base_url is required"))
	}
	switch c.Log.Driver {
	case "file", "zap":
	default:
		errs = append(errs, fmt.Errorf("log.driver must be file or zap, got %q", c.Log.Driver))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel debug / info / warn / error
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// LogxConfig 转成 logx.Config
func (l LogConfig) LogxConfig() logx.Config {
	lvl, _ := ParseLevel(l.Level)
	rotate := logx.RotateHourly
	if l.Rotate == "size" {
		rotate = logx.RotateSize
	}
	return logx.Config{
		AppName:        l.AppName,
		Level:          lvl,
		LogDir:         l.Dir,
		ConsoleEnabled: l.Console,
		ConsoleColored: l.Colored,
		Rotate:         rotate,
		MaxFileSizeMB:  l.MaxSizeMB,
		MaxBackups:     l.MaxBackups,
	}
}
