package logx

import (
	"context"
	"log/slog"
	"time"
)

// Logger 对外暴露给业务 / 组件使用的接口
type Logger interface {
	Debug(ctx context.Context, tag string, msg any, kv ...any)
	Info(ctx context.Context, tag string, msg any, kv ...any)
	Warn(ctx context.Context, tag string, msg any, kv ...any)
	Error(ctx context.Context, tag string, msg any, kv ...any)
}

type loggerImpl struct {
	slog *slog.Logger
}

func (l *loggerImpl) Debug(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, slog.LevelDebug, tag, msg, kv...)
}

func (l *loggerImpl) Info(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, slog.LevelInfo, tag, msg, kv...)
}

func (l *loggerImpl) Warn(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, slog.LevelWarn, tag, msg, kv...)
}

func (l *loggerImpl) Error(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, slog.LevelError, tag, msg, kv...)
}

func (l *loggerImpl) log(ctx context.Context, level slog.Level, tag string, msg any, kv ...any) {
	if l == nil || l.slog == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.slog.Enabled(ctx, level) {
		return
	}

	rec := slog.NewRecord(time.Now(), level, "", 0)
	rec.AddAttrs(encodeLog(ctx, tag, msg, kv...)...)
	_ = l.slog.Handler().Handle(ctx, rec)
}

// New 创建一个独立的 Logger，以及关闭它（刷完队列）的函数
func New(cfg Config) (Logger, func() error, error) {
	h, err := newHandler(cfg)
	if err != nil {
		return nil, nil, err
	}
	return &loggerImpl{slog: slog.New(h)}, h.close, nil
}

// Nop 丢弃所有日志
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, any, ...any) {}
func (nopLogger) Info(context.Context, string, any, ...any)  {}
func (nopLogger) Warn(context.Context, string, any, ...any)  {}
func (nopLogger) Error(context.Context, string, any, ...any) {}

// OrNop nil 时返回 Nop，组件构造时用
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
