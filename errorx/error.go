package errorx

import (
	"fmt"
)

// Error 是统一错误类型：带 kind、message、cause、扩展字段。
type Error struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Fields  map[string]any `json:"fields,omitempty"`
}

var _ error = (*Error)(nil)

// Error 只返回 Message；RetriesExhausted 额外带上 cause，其余种类的 cause 通过 Unwrap 获取
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Kind == KindRetriesExhausted && e.Cause != nil {
		return fmt.Sprintf("%s, cause: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// -------------------- Option --------------------

type Option func(*Error)

func WithMessage(msg string) Option {
	return func(e *Error) { e.Message = msg }
}

func WithCause(err error) Option {
	return func(e *Error) { e.Cause = err }
}

func WithField(k string, v any) Option {
	return func(e *Error) {
		if e.Fields == nil {
			e.Fields = make(map[string]any)
		}
		e.Fields[k] = v
	}
}

func WithFields(kv map[string]any) Option {
	return func(e *Error) {
		if len(kv) == 0 {
			return
		}
		if e.Fields == nil {
			e.Fields = make(map[string]any, len(kv))
		}
		for k, v := range kv {
			e.Fields[k] = v
		}
	}
}

// -------------------- 构造函数 --------------------

func New(kind Kind, opts ...Option) *Error {
	e := &Error{Kind: kind}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Newf(kind Kind, f string, args ...any) *Error {
	return New(kind, WithMessage(fmt.Sprintf(f, args...)))
}

func NotFound(name string) *Error {
	return New(KindNotFound, WithMessage(MsgNotFound), WithField("name", name))
}

func InvalidInputFile(msg string, opts ...Option) *Error {
	return New(KindInvalidInputFile, append([]Option{WithMessage(msg)}, opts...)...)
}

func ConversionFailed(msg string, opts ...Option) *Error {
	return New(KindConversionFailed, append([]Option{WithMessage(msg)}, opts...)...)
}

// RetriesExhausted 包装最后一次失败；原始 kind 通过 Unwrap 链仍可取到
func RetriesExhausted(last error, opts ...Option) *Error {
	opts = append([]Option{WithMessage(MsgRetriesExhausted), WithCause(last)}, opts...)
	return New(KindRetriesExhausted, opts...)
}

// -------------------- Wrap --------------------

// Wrap 给普通 error 套上 kind；已经是 *Error 的只补充 Option，不改 kind
func Wrap(err error, kind Kind, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	if e, ok := From(err); ok {
		for _, opt := range opts {
			opt(e)
		}
		return e
	}

	opts = append([]Option{WithCause(err), WithMessage(err.Error())}, opts...)
	return New(kind, opts...)
}
