package stats

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Quantiles はサマリーで追跡する分位点と許容誤差
var Quantiles = map[float64]float64{
	0.5:  0.05,
	0.9:  0.01,
	0.99: 0.001,
}

var (
	requestSummary = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "kvload_request_duration_seconds",
		Help:       "Latency of generated requests against the key-value store",
		Objectives: Quantiles,
	}, []string{"name", "method"})
	requestFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvload_request_failures_total",
		Help: "Failed requests against the key-value store",
	}, []string{"name", "method", "status"})
)

func init() {
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(requestFailures)
}

// observe はサンプルをPrometheusメトリクスに反映する
func observe(s Sample) {
	requestSummary.WithLabelValues(s.Name, s.Method).Observe(s.Latency.Seconds())

	if s.Failed() {
		status := "error"
		if s.Err == nil {
			status = strconv.Itoa(s.Status)
		}
		requestFailures.WithLabelValues(s.Name, s.Method, status).Inc()
	}
}

// Expose はPrometheusのスクレイプエンドポイントを公開する
// 呼び出し元が停止するまでブロックする
func Expose(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
