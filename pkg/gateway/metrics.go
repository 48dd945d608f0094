package gateway

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hradmin",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of REST calls issued by the gateway.",
		}, []string{"resource", "op", "result"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hradmin",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for gateway REST calls.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10, 30,
			},
		}, []string{"resource", "op"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
