package errorx

import "errors"

// From 提取链上第一个 *Error
func From(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回最外层 *Error 的 kind，没有则 KindUnknown
func KindOf(err error) Kind {
	e, ok := From(err)
	if !ok {
		return KindUnknown
	}
	return e.Kind
}

// -------------------- 类型判断 --------------------

// Is 沿整棵 Unwrap 树查找指定 kind（包括 errors.Join / 多个 %w，以及被 RetriesExhausted 包住的原始错误）
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		if e == nil {
			return false
		}
		if e.Kind == kind {
			return true
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return Is(u.Unwrap(), kind)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if Is(inner, kind) {
				return true
			}
		}
	}
	return false
}

func IsNotFound(err error) bool {
	return Is(err, KindNotFound)
}
