package retryx

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffFunc 返回第 attempt 次重试前需要等待的时间，attempt 从 1 开始
type BackoffFunc func(attempt int) time.Duration

// Exponential 2^attempt * unit：unit=1s 时依次为 2s, 4s, 8s ...
func Exponential(unit time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		if attempt > 30 {
			attempt = 30
		}
		return unit * time.Duration(int64(1)<<attempt)
	}
}

// DefaultBackoff 2^attempt 秒
var DefaultBackoff = Exponential(time.Second)

// attemptBackOff 把 BackoffFunc 适配为 backoff.BackOff，并限制最多 max 次重试
type attemptBackOff struct {
	fn      BackoffFunc
	max     int
	attempt int
}

var _ backoff.BackOff = (*attemptBackOff)(nil)

func (b *attemptBackOff) NextBackOff() time.Duration {
	if b.attempt >= b.max {
		return backoff.Stop
	}
	b.attempt++
	return b.fn(b.attempt)
}

func (b *attemptBackOff) Reset() { b.attempt = 0 }
