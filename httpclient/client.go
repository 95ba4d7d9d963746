package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// BeforeFunc 在请求发出前执行，例如注入 trace 头
type BeforeFunc func(ctx context.Context, req *http.Request)

// Config 是 Client 的初始化配置
type Config struct {
	BaseURL string

	// 请求级默认超时（per-request 没设 Timeout 时使用）
	DefaultTimeout time.Duration

	DialTimeout           time.Duration
	DialKeepAlive         time.Duration
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	ReadWriteTimeout      time.Duration // 每次 Read/Write 的 deadline

	// 状态码 / 响应体 -> 业务错误
	StatusDecoder StatusDecoder

	Before []BeforeFunc

	StatsHook StatsHook
}

func defaultConfig() Config {
	return Config{
		DefaultTimeout:        5 * time.Second,
		DialTimeout:           3 * time.Second,
		DialKeepAlive:         60 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ReadWriteTimeout:      5 * time.Second,
	}
}

type Option func(*Config)

func WithBaseURL(s string) Option {
	return func(c *Config) { c.BaseURL = s }
}

func WithDefaultTimeout(t time.Duration) Option {
	return func(c *Config) { c.DefaultTimeout = t }
}

func WithReadWriteTimeout(t time.Duration) Option {
	return func(c *Config) { c.ReadWriteTimeout = t }
}

func WithBeforeHooks(h ...BeforeFunc) Option {
	return func(c *Config) { c.Before = append(c.Before, h...) }
}

func WithStatusDecoder(dec StatusDecoder) Option {
	return func(c *Config) { c.StatusDecoder = dec }
}

func WithStatsHook(h StatsHook) Option {
	return func(c *Config) { c.StatsHook = h }
}

// Client 并发安全；每次 Do 只发一次请求，重试由调用方（retryx）负责
type Client struct {
	hc      *http.Client
	baseURL *url.URL

	before []BeforeFunc

	defaultTimeout time.Duration
	statusDecoder  StatusDecoder
	statsHook      StatsHook
}

// New Config 初始化后不再修改
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var base *url.URL
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		base = u
	}

	dec := cfg.StatusDecoder
	if dec == nil {
		dec = DefaultStatusDecoder
	}

	return &Client{
		hc:      &http.Client{Transport: buildTransport(&cfg)},
		baseURL: base,

		before: append([]BeforeFunc(nil), cfg.Before...),

		defaultTimeout: cfg.DefaultTimeout,
		statusDecoder:  dec,
		statsHook:      cfg.StatsHook,
	}, nil
}
