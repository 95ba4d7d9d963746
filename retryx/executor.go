package retryx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/logx"
)

// errRetry 交给 backoff 的占位错误；真实错误保存在 lastErr，
// 避免 action 返回的错误链上恰好带有 *backoff.PermanentError 时被 backoff 提前终止
var errRetry = errors.New("retryx: retryable failure")

// Executor 无状态，可并发复用；每次调用单独构造退避状态
type Executor struct {
	logger   logx.Logger
	backoff  BackoffFunc
	newTimer func() backoff.Timer
	metrics  *Metrics
}

type Option func(*Executor)

func WithLogger(l logx.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithBackoff 替换默认的 2^n 秒退避
func WithBackoff(fn BackoffFunc) Option {
	return func(e *Executor) { e.backoff = fn }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithTimer 自定义等待定时器，测试中用于跳过真实 sleep
func WithTimer(fn func() backoff.Timer) Option {
	return func(e *Executor) { e.newTimer = fn }
}

func New(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logx.OrNop(e.logger)
	if e.backoff == nil {
		e.backoff = DefaultBackoff
	}
	return e
}

// Run 无返回值版本的 Execute
func (e *Executor) Run(ctx context.Context, action func(ctx context.Context) error, maxRetries int) error {
	_, err := Execute(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, action(ctx)
	}, maxRetries)
	return err
}

// Execute 执行 action，失败时最多重试 maxRetries 次（共 maxRetries+1 次调用）。
//
// 返回值三选一：
//   - action 的成功结果
//   - NotFound 错误，原样返回，不重试
//   - RetriesExhausted 错误，Unwrap 得到最后一次失败
//
// ctx 被取消时提前结束，返回的错误同时满足 errors.Is(err, ctx.Err())。
// 是否重试只看 Classify：action 自己返回的 backoff.Permanent 也按普通错误重试。
func Execute[T any](ctx context.Context, e *Executor, action func(ctx context.Context) (T, error), maxRetries int) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e == nil {
		e = New()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	var (
		zero     T
		lastErr  error
		terminal error
		retries  int
	)

	op := func() (T, error) {
		v, err := action(ctx)
		switch Classify(err) {
		case OutcomeSuccess:
			return v, nil
		case OutcomeTerminal:
			terminal = err
			return v, backoff.Permanent(err)
		default:
			lastErr = err
			return v, errRetry
		}
	}

	notify := func(_ error, wait time.Duration) {
		retries++
		e.metrics.incRetry()
		e.logger.Warn(ctx, logx.TagRetry,
			fmt.Sprintf("Retry #%d due to error: %v", retries, lastErr),
			logx.Attempt, retries,
			logx.Delay, wait.String(),
			logx.MaxRetries, maxRetries,
		)
	}

	var timer backoff.Timer
	if e.newTimer != nil {
		timer = e.newTimer()
	}
	b := backoff.WithContext(&attemptBackOff{fn: e.backoff, max: maxRetries}, ctx)

	v, err := backoff.RetryNotifyWithTimerAndData(op, b, notify, timer)
	switch {
	case err == nil:
		return v, nil
	case terminal != nil:
		e.metrics.incTerminal()
		return zero, terminal
	}

	e.metrics.incExhausted()
	exhausted := errorx.RetriesExhausted(lastErr, errorx.WithFields(map[string]any{
		logx.Attempt:    retries + 1,
		logx.MaxRetries: maxRetries,
	}))
	if cerr := ctx.Err(); cerr != nil {
		return zero, fmt.Errorf("%w: %w", cerr, exhausted)
	}
	return zero, exhausted
}
