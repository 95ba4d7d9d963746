package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/converter/logx"
)

const DefaultJSONContentType = "application/json"

// ErrorResponseConfig ErrorResponse 的依赖，启动时构造一次
type ErrorResponseConfig struct {
	Classification  Classification
	JSONContentType string
	Logger          logx.Logger
	Metrics         *Metrics
}

// ErrorResponse 请求链路唯一的异常出口：
// 捕获下游 c.Error 留下的错误和 panic，按分类表写出 JSON 错误响应，不再向外抛出。
// http.ErrAbortHandler 例外，原样继续 panic。
func ErrorResponse(cfg ErrorResponseConfig) gin.HandlerFunc {
	logger := logx.OrNop(cfg.Logger)
	contentType := cfg.JSONContentType
	if contentType == "" {
		contentType = DefaultJSONContentType
	}
	classes := cfg.Classification
	if classes.rules == nil {
		classes = DefaultClassification()
	}

	handle := func(c *gin.Context, err error) {
		status, msg, kind := classes.Resolve(err)
		ctx := c.Request.Context()
		logger.Error(ctx, logx.TagRequestError, err.Error(),
			logx.Status, status,
			logx.Kind, kind.String(),
			logx.Method, c.Request.Method,
			logx.Path, c.Request.URL.Path,
		)
		cfg.Metrics.observe(status, kind.String())

		c.Abort()
		// 下游已经写过响应，只能记录
		if c.Writer.Written() {
			return
		}

		body, encErr := NewErrorBody(msg, status).Encode()
		if encErr != nil {
			logger.Error(ctx, logx.TagRequestError, encErr)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(status, contentType, body)
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := panicError(r)
				// 主动中断连接，交回 net/http 处理
				if errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}
				handle(c, err)
			}
		}()

		c.Next()

		if last := c.Errors.Last(); last != nil && last.Err != nil {
			handle(c, last.Err)
		}
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
