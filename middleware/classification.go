package middleware

import (
	"net/http"

	"github.com/imattdu/converter/errorx"
)

// MessageFunc 根据错误生成对外文案
type MessageFunc func(err error) string

// Rule 某一类错误对应的 HTTP 状态码与文案规则
type Rule struct {
	Status  int
	Message MessageFunc
}

// Echo 直接使用错误自身的文案
func Echo(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Constant 固定文案
func Constant(msg string) MessageFunc {
	return func(error) string { return msg }
}

// FallbackRule 分类表中没有的错误：500 + 错误自身文案
var FallbackRule = Rule{Status: http.StatusInternalServerError, Message: Echo}

// Classification 错误种类 -> Rule 的只读映射，构造后不再修改，可并发读
type Classification struct {
	rules map[errorx.Kind]Rule
}

// NewClassification 复制一份 rules；Status 非法或 Message 为空的条目补默认值
func NewClassification(rules map[errorx.Kind]Rule) Classification {
	cp := make(map[errorx.Kind]Rule, len(rules))
	for k, r := range rules {
		if r.Status < 400 || r.Status > 599 {
			r.Status = http.StatusInternalServerError
		}
		if r.Message == nil {
			r.Message = Echo
		}
		cp[k] = r
	}
	return Classification{rules: cp}
}

// DefaultRule 内置分类：每个 kind 必须在这里显式出现，新增 kind 时在此决定映射
func DefaultRule(kind errorx.Kind) (Rule, bool) {
	switch kind {
	case errorx.KindNotFound:
		return Rule{Status: http.StatusNotFound, Message: Constant("File not found.")}, true
	case errorx.KindInvalidInputFile:
		return Rule{Status: http.StatusBadRequest, Message: Echo}, true
	case errorx.KindConversionFailed:
		return Rule{Status: http.StatusBadRequest, Message: Echo}, true
	case errorx.KindRetriesExhausted, errorx.KindUnknown:
		// 走 FallbackRule
		return Rule{}, false
	default:
		return Rule{}, false
	}
}

// DefaultClassification 由 DefaultRule 生成，启动时构造一次后注入中间件
func DefaultClassification() Classification {
	rules := make(map[errorx.Kind]Rule)
	for _, k := range errorx.Kinds() {
		if r, ok := DefaultRule(k); ok {
			rules[k] = r
		}
	}
	return NewClassification(rules)
}

// Resolve 返回状态码、对外文案和命中的 kind
func (c Classification) Resolve(err error) (int, string, errorx.Kind) {
	e, ok := errorx.From(err)
	if !ok {
		return FallbackRule.Status, FallbackRule.Message(err), errorx.KindUnknown
	}
	if r, hit := c.rules[e.Kind]; hit {
		return r.Status, r.Message(e), e.Kind
	}
	return FallbackRule.Status, FallbackRule.Message(e), e.Kind
}

// Len 已映射的种类数
func (c Classification) Len() int { return len(c.rules) }
