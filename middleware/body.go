package middleware

import (
	"github.com/goccy/go-json"
)

// ErrorBody 失败请求的统一响应体，Result 恒为空数组
type ErrorBody struct {
	Message   string `json:"Message"`
	ErrorCode int    `json:"ErrorCode"`
	Result    []any  `json:"Result"`
}

func NewErrorBody(msg string, code int) ErrorBody {
	return ErrorBody{Message: msg, ErrorCode: code, Result: []any{}}
}

// Encode 缩进 JSON
func (b ErrorBody) Encode() ([]byte, error) {
	if b.Result == nil {
		b.Result = []any{}
	}
	return json.MarshalIndent(b, "", "  ")
}
