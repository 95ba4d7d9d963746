package cctx

import (
	"context"
)

type bagKeyType struct{}

var bagKey bagKeyType

// bag 写时复制：每次写入都生成新 map，旧 ctx 不受影响
type bag map[string]any

func bagFrom(ctx context.Context) bag {
	if ctx == nil {
		return nil
	}
	if b, ok := ctx.Value(bagKey).(bag); ok {
		return b
	}
	return nil
}

// 只对 map[string]any / []any 递归复制，其它类型按值赋
func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepCopy(x[i])
		}
		return out
	default:
		return v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

// With 写入一条 k/v，返回新 ctx
func With(ctx context.Context, key string, val any) context.Context {
	return WithMany(ctx, map[string]any{key: val})
}

// WithMany 一次写入多条 k/v，返回新 ctx
func WithMany(ctx context.Context, kv map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	old := bagFrom(ctx)
	next := make(bag, len(old)+len(kv))
	for k, v := range old {
		next[k] = v
	}
	for k, v := range kv {
		next[k] = deepCopy(v)
	}
	return context.WithValue(ctx, bagKey, next)
}

func Get(ctx context.Context, key string) (any, bool) {
	if b := bagFrom(ctx); b != nil {
		v, ok := b[key]
		return v, ok
	}
	return nil, false
}

// GetAs 读取并断言为 T
func GetAs[T any](ctx context.Context, key string) (T, bool) {
	var zero T
	v, ok := Get(ctx, key)
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// All 返回 bag 的深拷贝，跳过 skip 中的 key
func All(ctx context.Context, skip ...string) map[string]any {
	b := bagFrom(ctx)
	if b == nil {
		return map[string]any{}
	}
	out := deepCopyMap(b)
	for _, k := range skip {
		delete(out, k)
	}
	return out
}
