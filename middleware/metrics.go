package middleware

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 错误响应计数；nil 时为空操作
type Metrics struct {
	errors *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		errors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "converter",
			Name:      "error_responses_total",
			Help:      "Total number of error responses written by the error middleware.",
		}, []string{"status", "kind"}),
	}
}

func (m *Metrics) observe(status int, kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(strconv.Itoa(status), kind).Inc()
}
