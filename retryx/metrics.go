package retryx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 重试相关计数；nil 时所有方法为空操作
type Metrics struct {
	retries   prometheus.Counter
	exhausted prometheus.Counter
	terminal  prometheus.Counter
}

// NewMetrics 在 reg 上注册计数器；reg 为 nil 时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		retries: f.NewCounter(prometheus.CounterOpts{
			Namespace: "converter",
			Name:      "retry_attempts_total",
			Help:      "Total number of retries performed after a failed attempt.",
		}),
		exhausted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "converter",
			Name:      "retry_exhausted_total",
			Help:      "Total number of actions that failed after all retries.",
		}),
		terminal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "converter",
			Name:      "retry_not_found_total",
			Help:      "Total number of actions stopped by a not-found error.",
		}),
	}
}

func (m *Metrics) incRetry() {
	if m != nil {
		m.retries.Inc()
	}
}

func (m *Metrics) incExhausted() {
	if m != nil {
		m.exhausted.Inc()
	}
}

func (m *Metrics) incTerminal() {
	if m != nil {
		m.terminal.Inc()
	}
}
