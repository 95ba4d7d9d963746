package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/converter/logx"
)

// 请求/响应体超过该长度只记录大小
const maxLoggedBody = 1024

type responseWriter struct {
	body *bytes.Buffer
	gin.ResponseWriter
}

func (w responseWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxLoggedBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	if w.body.Len() < maxLoggedBody {
		w.body.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

func clip(b []byte) any {
	if len(b) > maxLoggedBody {
		return map[string]int{"size": len(b)}
	}
	return string(b)
}

// Access 访问日志：进入时打 request_in，结束时打 request_out（含状态码、耗时、响应体）
func Access(logger logx.Logger) gin.HandlerFunc {
	logger = logx.OrNop(logger)
	return func(c *gin.Context) {
		req := c.Request
		ctx := req.Context()
		logMap := map[string]any{
			logx.Remote: c.ClientIP(),
			logx.Method: req.Method,
			logx.Path:   req.URL.Path,
			logx.Query:  req.URL.RawQuery,
		}

		if req.Body != nil && req.ContentLength > 0 && req.ContentLength <= maxLoggedBody {
			raw, err := io.ReadAll(req.Body)
			if err != nil {
				logMap[logx.Err] = err.Error()
				logger.Warn(ctx, logx.TagUndef, logMap)
			}
			// 重置请求体供下游读取
			req.Body = io.NopCloser(bytes.NewReader(raw))
			logMap[logx.Body] = clip(raw)
		}
		logger.Info(ctx, logx.TagRequestIn, logMap)

		writer := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = writer
		start := time.Now()
		c.Next()

		out := map[string]any{
			logx.Method:   req.Method,
			logx.Path:     req.URL.Path,
			logx.Status:   c.Writer.Status(),
			logx.Response: clip(writer.body.Bytes()),
			logx.Cost:     time.Since(start).Milliseconds(),
		}
		logger.Info(ctx, logx.TagRequestOut, out)
	}
}
