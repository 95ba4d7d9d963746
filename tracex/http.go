package tracex

import (
	"context"
	"net/http"
	"time"
)

const (
	HeaderTraceID      = "X-Trace-Id"
	HeaderSpanID       = "X-Span-Id"
	HeaderParentSpanID = "X-Parent-Span-Id"
)

// InjectToHeader 把当前 span 的 trace 信息写进下游请求头
func InjectToHeader(ctx context.Context, h http.Header) {
	span := SpanFromContext(ctx)
	if h == nil || span == nil {
		return
	}
	if span.TraceID != "" {
		h.Set(HeaderTraceID, span.TraceID)
	}
	if span.SpanID != "" {
		h.Set(HeaderSpanID, span.SpanID)
	}
	if span.Parent != "" {
		h.Set(HeaderParentSpanID, span.Parent)
	}
}

// ExtractRemoteSpan 服务端使用：以上游 header 中的 span 为 parent 创建本地 span。
// 上游没有传 trace 时本地 span 即为 root。
func ExtractRemoteSpan(ctx context.Context, h http.Header, name string) (context.Context, *Span) {
	var traceID, spanID, parent string
	if h != nil {
		traceID = h.Get(HeaderTraceID)
		spanID = h.Get(HeaderSpanID)
		parent = h.Get(HeaderParentSpanID)
	}

	if traceID == "" {
		traceID = newID()
	}
	local := &Span{
		TraceID: traceID,
		SpanID:  newID(),
		Start:   time.Now(),
		Name:    name,
	}
	if spanID != "" {
		local.Parent = spanID
	} else {
		local.Parent = parent
	}

	return WithSpan(ctx, local), local
}
