// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, path string, statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordTokenExchangeSuccess()
	RecordTokenExchangeFailure(reason string)
	RecordGuardRejection(reason string)
	RecordNotificationCreated(notificationType string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests        *prometheus.CounterVec
	httpLatency         prometheus.Histogram
	exchangeSuccess     prometheus.Counter
	exchangeFail        *prometheus.CounterVec
	guardRejections     *prometheus.CounterVec
	notificationCreated *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotlight_http_requests_total",
			Help: "メソッド・パス・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "path", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotlight_http_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		exchangeSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotlight_token_exchange_success_total",
			Help: "IDトークン交換成功の合計数",
		}),
		exchangeFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotlight_token_exchange_fail_total",
			Help: "IDトークン交換失敗の合計数（理由別）",
		}, []string{"reason"}),
		guardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotlight_guard_rejections_total",
			Help: "セッショントークン検証失敗の合計数（理由別）",
		}, []string{"reason"}),
		notificationCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotlight_notifications_created_total",
			Help: "作成された通知の合計数（種別ごと）",
		}, []string{"type"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.exchangeSuccess,
		c.exchangeFail,
		c.guardRejections,
		c.notificationCreated,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はHTTPリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordTokenExchangeSuccess はIDトークン交換の成功を記録する。
func (c *Collector) RecordTokenExchangeSuccess() {
	c.exchangeSuccess.Inc()
}

// RecordTokenExchangeFailure はIDトークン交換の失敗を記録する。
func (c *Collector) RecordTokenExchangeFailure(reason string) {
	c.exchangeFail.WithLabelValues(reason).Inc()
}

// RecordGuardRejection はセッショントークン検証の失敗を記録する。
// reasonはmissing_or_malformed/expired/invalidのいずれか。
func (c *Collector) RecordGuardRejection(reason string) {
	c.guardRejections.WithLabelValues(reason).Inc()
}

// RecordNotificationCreated は通知の作成を記録する。
func (c *Collector) RecordNotificationCreated(notificationType string) {
	c.notificationCreated.WithLabelValues(notificationType).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
