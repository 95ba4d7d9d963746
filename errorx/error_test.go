package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "nil", err: nil, want: "<nil>"},
		{name: "kind only", err: New(KindConversionFailed), want: "conversion_failed"},
		{name: "message", err: InvalidInputFile("bad header"), want: "bad header"},
		{name: "not found", err: NotFound("a.docx"), want: MsgNotFound},
		{name: "formatted", err: Newf(KindInvalidInputFile, "unsupported target format: %s", "pdf"), want: "unsupported target format: pdf"},
		{
			name: "exhausted carries cause",
			err:  RetriesExhausted(errors.New("timeout")),
			want: "action failed after multiple retries, cause: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, KindNotFound))

	base := errors.New("disk gone")
	e := Wrap(base, KindConversionFailed, WithField("name", "x.pdf"))
	require.NotNil(t, e)
	assert.Equal(t, KindConversionFailed, e.Kind)
	assert.Equal(t, "disk gone", e.Message)
	assert.ErrorIs(t, e, base)
	assert.Equal(t, "x.pdf", e.Fields["name"])

	// 已经是 *Error：保留 kind，只补字段
	orig := NotFound("a")
	again := Wrap(fmt.Errorf("read: %w", orig), KindConversionFailed, WithField("attempt", 2))
	assert.Same(t, orig, again)
	assert.Equal(t, KindNotFound, again.Kind)
	assert.Equal(t, 2, again.Fields["attempt"])
}

func TestKindOfAndIs(t *testing.T) {
	nf := NotFound("a")
	wrapped := fmt.Errorf("read source: %w", nf)
	exhausted := RetriesExhausted(InvalidInputFile("bad"))

	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindRetriesExhausted, KindOf(exhausted))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.True(t, Is(exhausted, KindInvalidInputFile))
	assert.True(t, Is(exhausted, KindRetriesExhausted))
	assert.False(t, Is(exhausted, KindNotFound))
}

func TestIsWalksMultiErrors(t *testing.T) {
	joined := errors.Join(errors.New("cleanup failed"), NotFound("a.docx"))
	assert.True(t, IsNotFound(joined))
	assert.Equal(t, KindNotFound, KindOf(joined))

	// 两个 %w：取消错误 + RetriesExhausted(原始错误)
	double := fmt.Errorf("%w: %w", errors.New("context canceled"), RetriesExhausted(InvalidInputFile("bad")))
	assert.True(t, Is(double, KindRetriesExhausted))
	assert.True(t, Is(double, KindInvalidInputFile))
	assert.False(t, Is(double, KindNotFound))

	var nilErr *Error
	assert.False(t, Is(nilErr, KindNotFound))
	assert.False(t, Is(errors.Join(nil, errors.New("x")), KindNotFound))
}

func TestKindString(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		s := k.String()
		assert.NotEqual(t, "unknown", s)
		assert.False(t, seen[s], "duplicate kind name %s", s)
		seen[s] = true
	}
	assert.Equal(t, "unknown", Kind(99).String())
}
