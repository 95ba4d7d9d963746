package logx

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger 以 zap 作为输出端，字段编码与 slog 版保持一致（tag 作为 message）
type zapLogger struct {
	z *zap.Logger
}

// NewZap 用现成的 *zap.Logger 构造 Logger
func NewZap(z *zap.Logger) Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z}
}

// NewZapConsole 只输出到控制台的 zap Logger（无文件切分需求时使用）
func NewZapConsole(level slog.Level) (Logger, func() error, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	zc.DisableCaller = true // 调用方由 encodeLog 给出
	zc.EncoderConfig.MessageKey = "tag"
	z, err := zc.Build()
	if err != nil {
		return nil, nil, err
	}
	return NewZap(z), z.Sync, nil
}

func (l *zapLogger) Debug(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, zapcore.DebugLevel, tag, msg, kv...)
}

func (l *zapLogger) Info(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, zapcore.InfoLevel, tag, msg, kv...)
}

func (l *zapLogger) Warn(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, zapcore.WarnLevel, tag, msg, kv...)
}

func (l *zapLogger) Error(ctx context.Context, tag string, msg any, kv ...any) {
	l.log(ctx, zapcore.ErrorLevel, tag, msg, kv...)
}

func (l *zapLogger) log(ctx context.Context, level zapcore.Level, tag string, msg any, kv ...any) {
	ce := l.z.Check(level, tag)
	if ce == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	attrs := encodeLog(ctx, tag, msg, kv...)
	fields := make([]zap.Field, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == "tag" {
			continue
		}
		fields = append(fields, zap.Any(a.Key, a.Value.Resolve().Any()))
	}
	ce.Write(fields...)
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
