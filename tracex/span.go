package tracex

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

type Span struct {
	TraceID string `json:"trace_id"`
	SpanID  string `json:"span_id"`
	Parent  string `json:"parent_span_id,omitempty"`
	Name    string `json:"name,omitempty"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Err   error     `json:"-"`
}

// newID 128 bit 随机 ID（32 位 hex，无连字符）
func newID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Duration 返回 span 耗时，未结束为 0
func (s *Span) Duration() time.Duration {
	if s == nil || s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// SpanHook 在 span 结束时回调，例如打日志
type SpanHook func(ctx context.Context, span *Span)

// -------------------- Span 生命周期 --------------------

// StartSpan 在当前 ctx 上创建子 span；ctx 中没有 span 时生成新的 TraceID
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	parent := SpanFromContext(ctx)

	traceID, parentID := "", ""
	if parent != nil {
		traceID = parent.TraceID
		parentID = parent.SpanID
	}
	if traceID == "" {
		traceID = newID()
	}

	span := &Span{
		TraceID: traceID,
		SpanID:  newID(),
		Parent:  parentID,
		Name:    name,
		Start:   time.Now(),
	}
	return WithSpan(ctx, span), span
}

// EndSpan 结束 span 并触发 hook（可为 nil）；重复调用无效
func EndSpan(ctx context.Context, span *Span, err error, hook SpanHook) {
	if span == nil || !span.End.IsZero() {
		return
	}
	span.End = time.Now()
	span.Err = err
	if hook != nil {
		hook(ctx, span)
	}
}
