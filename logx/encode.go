package logx

import (
	"context"
	"log/slog"

	"github.com/imattdu/converter/cctx"
	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/tracex"
)

// encodeLog 把 ctx / tag / msg / kv 整合成一组 slog.Attr
func encodeLog(ctx context.Context, tag string, msg any, kv ...any) []slog.Attr {
	attrs := make([]slog.Attr, 0, 16)

	if tag != "" {
		attrs = append(attrs, slog.String("tag", tag))
	}

	c := getCaller()
	attrs = append(attrs,
		slog.String("file", c.file),
		slog.Int("line", c.line),
		slog.String("func", c.funcName),
	)

	if span := tracex.SpanFromContext(ctx); span != nil {
		attrs = append(attrs,
			slog.String("trace_id", span.TraceID),
			slog.String("span_id", span.SpanID),
		)
	}

	switch v := msg.(type) {
	case *errorx.Error:
		attrs = append(attrs,
			slog.String(Kind, v.Kind.String()),
			slog.String(Msg, v.Error()),
		)
		for k, vv := range v.Fields {
			attrs = append(attrs, slog.Any(k, vv))
		}
		if v.Cause != nil {
			attrs = append(attrs, slog.String("cause", v.Cause.Error()))
		}
	case error:
		attrs = append(attrs, slog.String(Err, v.Error()))
	default:
		attrs = append(attrs, slog.Any(Msg, v))
	}

	// span 已经单独输出过
	for k, v := range cctx.All(ctx, tracex.SpanKey) {
		attrs = append(attrs, slog.Any(k, v))
	}

	// 额外 kv（必须是偶数个，key 非 string 的丢弃）
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(k, kv[i+1]))
	}

	return attrs
}
