package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/logx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorHarness struct {
	engine  *gin.Engine
	logs    *observer.ObservedLogs
	metrics *Metrics
}

func newErrorHarness(handler gin.HandlerFunc) *errorHarness {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &errorHarness{logs: logs, metrics: NewMetrics(prometheus.NewRegistry())}

	h.engine = gin.New()
	h.engine.Use(ErrorResponse(ErrorResponseConfig{
		Classification:  DefaultClassification(),
		JSONContentType: "application/json; charset=utf-8",
		Logger:          logx.NewZap(zap.New(core)),
		Metrics:         h.metrics,
	}))
	h.engine.GET("/files/:name", handler)
	return h
}

func (h *errorHarness) do(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/files/a.docx", nil)
	h.engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorResponseClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantKind   string
	}{
		{
			name:       "not found uses constant message",
			err:        errorx.NotFound("a.docx"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "File not found.",
			wantKind:   "not_found",
		},
		{
			name:       "invalid input echoes message",
			err:        errorx.InvalidInputFile("bad header"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "bad header",
			wantKind:   "invalid_input_file",
		},
		{
			name:       "conversion failed echoes message",
			err:        errorx.ConversionFailed("unsupported codec"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "unsupported codec",
			wantKind:   "conversion_failed",
		},
		{
			name:       "wrapped kind is still found",
			err:        fmt.Errorf("convert: %w", errorx.ConversionFailed("broken table")),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "broken table",
			wantKind:   "conversion_failed",
		},
		{
			name:       "unmapped error echoes its own message",
			err:        errors.New(`db "primary" unreachable ✗`),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    `db "primary" unreachable ✗`,
			wantKind:   "unknown",
		},
		{
			name:       "retries exhausted falls back to 500",
			err:        errorx.RetriesExhausted(errors.New("timeout")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "action failed after multiple retries, cause: timeout",
			wantKind:   "retries_exhausted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newErrorHarness(func(c *gin.Context) {
				_ = c.Error(tt.err)
			})
			rec := h.do(t)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantStatus, body.ErrorCode)
			assert.NotNil(t, body.Result)
			assert.Empty(t, body.Result)

			entries := h.logs.FilterMessage(logx.TagRequestError).All()
			require.Len(t, entries, 1)
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
			assert.Equal(t, tt.err.Error(), entries[0].ContextMap()[logx.Msg])

			assert.Equal(t, 1.0, testutil.ToFloat64(
				h.metrics.errors.WithLabelValues(fmt.Sprint(tt.wantStatus), tt.wantKind)))
		})
	}
}

func TestErrorResponseBadHeaderScenario(t *testing.T) {
	h := newErrorHarness(func(c *gin.Context) {
		_ = c.Error(errorx.InvalidInputFile("bad header"))
	})
	rec := h.do(t)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"Message":"bad header","ErrorCode":400,"Result":[]}`, rec.Body.String())
	// 缩进输出
	assert.Contains(t, rec.Body.String(), "\n  \"Message\": \"bad header\"")
}

func TestErrorResponsePassThrough(t *testing.T) {
	h := newErrorHarness(func(c *gin.Context) {
		c.String(http.StatusCreated, "converted")
	})
	rec := h.do(t)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "converted", rec.Body.String())
	assert.Empty(t, h.logs.All())
}

func TestErrorResponseRecoversPanic(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		status  int
		message string
	}{
		{name: "string", value: "boom", status: http.StatusInternalServerError, message: "boom"},
		{name: "plain error", value: errors.New("nil map"), status: http.StatusInternalServerError, message: "nil map"},
		{name: "classified error", value: errorx.NotFound("x"), status: http.StatusNotFound, message: "File not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newErrorHarness(func(c *gin.Context) {
				panic(tt.value)
			})

			var rec *httptest.ResponseRecorder
			require.NotPanics(t, func() { rec = h.do(t) })
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec).Message)
		})
	}
}

func TestErrorResponseRepanicsAbortHandler(t *testing.T) {
	h := newErrorHarness(func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { h.do(t) })
	assert.Empty(t, h.logs.FilterMessage(logx.TagRequestError).All())
	assert.Equal(t, 0, testutil.CollectAndCount(h.metrics.errors))
}

func TestErrorResponseAfterWrite(t *testing.T) {
	h := newErrorHarness(func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		_ = c.Error(errors.New("late failure"))
	})
	rec := h.do(t)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Len(t, h.logs.FilterMessage(logx.TagRequestError).All(), 1)
}

func TestErrorResponseDefaults(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorResponse(ErrorResponseConfig{}))
	engine.GET("/", func(c *gin.Context) {
		_ = c.Error(errorx.NotFound("a"))
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, DefaultJSONContentType, rec.Header().Get("Content-Type"))
}
