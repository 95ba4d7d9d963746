package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/imattdu/converter/errorx"
)

// CallStats 一次调用信息
type CallStats struct {
	Method string        `json:"method"`
	URL    string        `json:"url"`
	Path   string        `json:"path"`
	Status int           `json:"status"`
	Err    string        `json:"err,omitempty"`
	Cost   time.Duration `json:"cost"`
	Size   int           `json:"size"`
}

// StatsHook 统计上报 Hook（例如打日志）
type StatsHook func(ctx context.Context, stats *CallStats)

// StatusDecoder 把非成功状态码转成错误，返回 nil 表示成功
type StatusDecoder func(statusCode int, body []byte) error

// StatusError 未被特殊处理的非 2xx 响应
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// DefaultStatusDecoder 404 -> errorx NotFound（不可重试），其它 >=400 -> *StatusError
func DefaultStatusDecoder(statusCode int, body []byte) error {
	switch {
	case statusCode < 400:
		return nil
	case statusCode == http.StatusNotFound:
		return errorx.New(errorx.KindNotFound, errorx.WithMessage(errorx.MsgNotFound))
	default:
		if len(body) > 256 {
			body = body[:256]
		}
		return &StatusError{Status: statusCode, Body: string(body)}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
