package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/logx"
	"github.com/imattdu/converter/tracex"
)

func TestAccessAndTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logx.NewZap(zap.New(core))

	engine := gin.New()
	engine.Use(Trace(logger), Access(logger), ErrorResponse(ErrorResponseConfig{Logger: logger}))

	var seenBody string
	engine.POST("/files/:name/convert", func(c *gin.Context) {
		raw, _ := c.GetRawData()
		seenBody = string(raw)
		_ = c.Error(errorx.ConversionFailed("empty input"))
	})

	req := httptest.NewRequest(http.MethodPost, "/files/a.txt/convert?to=base64", strings.NewReader("hello"))
	req.Header.Set(tracex.HeaderTraceID, "0123456789abcdef0123456789abcdef")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "hello", seenBody)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", rec.Header().Get(tracex.HeaderTraceID))

	in := logs.FilterMessage(logx.TagRequestIn).All()
	require.Len(t, in, 1)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", in[0].ContextMap()["trace_id"])

	out := logs.FilterMessage(logx.TagRequestOut).All()
	require.Len(t, out, 1)
	fields, ok := out[0].ContextMap()[logx.Msg].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, fields[logx.Status])
	assert.Contains(t, fields[logx.Response], "empty input")

	spans := logs.FilterMessage(logx.TagSpanEnd).All()
	require.Len(t, spans, 1)
	assert.Equal(t, zapcore.DebugLevel, spans[0].Level)
	sf := spans[0].ContextMap()
	assert.Equal(t, "/files/:name/convert", sf[logx.Span])
	assert.Equal(t, "empty input", sf[logx.Err])
	assert.Equal(t, "0123456789abcdef0123456789abcdef", sf["trace_id"])
	assert.Contains(t, sf, logx.Cost)
}

func TestAccessClipsLargeBodies(t *testing.T) {
	assert.Equal(t, "small", clip([]byte("small")))
	assert.Equal(t, map[string]int{"size": 2048}, clip(make([]byte, 2048)))
}
