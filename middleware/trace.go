package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/converter/logx"
	"github.com/imattdu/converter/tracex"
)

// Trace 生成/透传 trace，写入 request ctx 和响应头；请求结束时关闭 span 并记一条 debug 日志
func Trace(logger logx.Logger) gin.HandlerFunc {
	logger = logx.OrNop(logger)
	hook := func(ctx context.Context, span *tracex.Span) {
		kv := []any{logx.Span, span.Name, logx.Cost, span.Duration().Milliseconds()}
		if span.Err != nil {
			kv = append(kv, logx.Err, span.Err.Error())
		}
		logger.Debug(ctx, logx.TagSpanEnd, "span finished", kv...)
	}

	return func(c *gin.Context) {
		ctx, span := tracex.ExtractRemoteSpan(c.Request.Context(), c.Request.Header, c.FullPath())
		c.Request = c.Request.WithContext(ctx)
		c.Header(tracex.HeaderTraceID, span.TraceID)

		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		tracex.EndSpan(ctx, span, err, hook)
	}
}
