package logx

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imattdu/converter/cctx"
	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/tracex"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	l, closeFn, err := New(Config{AppName: "converter", Level: slog.LevelInfo, LogDir: dir})
	require.NoError(t, err)

	ctx, span := tracex.StartSpan(context.Background(), "test")
	ctx = cctx.With(ctx, "input", "a.docx")

	l.Debug(ctx, TagUndef, "dropped by level")
	l.Warn(ctx, TagRetry, "Retry #1", Attempt, 1)
	l.Error(ctx, TagRequestError, errorx.InvalidInputFile("bad header"))
	require.NoError(t, closeFn())
	require.NoError(t, closeFn())

	lines := readLines(t, filepath.Join(dir, "converter.log"))
	require.Len(t, lines, 2)

	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, TagRetry, lines[0]["tag"])
	assert.Equal(t, "Retry #1", lines[0][Msg])
	assert.EqualValues(t, 1, lines[0][Attempt])
	assert.Equal(t, span.TraceID, lines[0]["trace_id"])
	assert.Equal(t, "a.docx", lines[0]["input"])
	assert.NotContains(t, lines[0], tracex.SpanKey)

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "invalid_input_file", lines[1][Kind])
	assert.Equal(t, "bad header", lines[1][Msg])

	// 关闭后写入直接丢弃
	l.Error(ctx, TagUndef, "after close")
}

func TestConsoleOnly(t *testing.T) {
	h, err := newHandler(Config{Level: slog.LevelDebug, ConsoleEnabled: true, ConsoleColored: true})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	h.console = buf

	l := &loggerImpl{slog: slog.New(h)}
	l.Info(context.Background(), TagUndef, errors.New("plain"))
	require.NoError(t, h.close())

	assert.Contains(t, buf.String(), "[INFO ]")
	assert.Contains(t, buf.String(), `"err":"plain"`)
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewZap(zap.New(core))

	ctx, span := tracex.StartSpan(context.Background(), "zap")
	l.Info(ctx, TagUndef, "below level")
	l.Warn(ctx, TagRetry, "Retry #2 due to error: timeout", Attempt, 2)

	entries := logs.FilterMessage(TagRetry).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Retry #2 due to error: timeout", fields[Msg])
	assert.EqualValues(t, 2, fields[Attempt])
	assert.Equal(t, span.TraceID, fields["trace_id"])
	assert.Equal(t, "logx/logger_test.go", fields["file"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		OrNop(nil).Error(context.Background(), TagUndef, "x")
	})
	l := NewZap(nil)
	assert.Same(t, l, OrNop(l))
}
