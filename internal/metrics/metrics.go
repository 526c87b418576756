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
// ハンドラー層とフロー層から利用する。
type MetricsCollector interface {
	ReservationCreated(kind, mode string)
	ValidationFailed(field, reason string)
	RecordDeposit(outcome string)
	RecordLogin(role string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	reg                 prometheus.Registerer
	reservationsCreated *prometheus.CounterVec
	depositsRecorded    *prometheus.CounterVec
	validationFailures  *prometheus.CounterVec
	logins              *prometheus.CounterVec
	httpStatus          *prometheus.CounterVec
	requestLatency      prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reg: reg,
		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "costaazul_reservations_created_total",
			Help: "台帳に追加された予約の合計数",
		}, []string{"kind", "mode"}),
		depositsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "costaazul_deposits_recorded_total",
			Help: "前金記録の結果別の合計数",
		}, []string{"outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "costaazul_validation_failures_total",
			Help: "送信時の入力欄エラーの合計数",
		}, []string{"field", "reason"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "costaazul_logins_total",
			Help: "役割別のログイン数",
		}, []string{"role"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "costaazul_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "costaazul_request_latency_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reservationsCreated,
		c.depositsRecorded,
		c.validationFailures,
		c.logins,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// ReservationCreated は予約の追加を記録する。
func (c *Collector) ReservationCreated(kind, mode string) {
	c.reservationsCreated.WithLabelValues(kind, mode).Inc()
}

// ValidationFailed は送信時の入力欄エラーを記録する。
func (c *Collector) ValidationFailed(field, reason string) {
	c.validationFailures.WithLabelValues(field, reason).Inc()
}

// RecordDeposit は前金記録の結果（applied / ignored）を記録する。
func (c *Collector) RecordDeposit(outcome string) {
	c.depositsRecorded.WithLabelValues(outcome).Inc()
}

// RecordLogin はログインを役割別に記録する。
func (c *Collector) RecordLogin(role string) {
	c.logins.WithLabelValues(role).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// WatchWorkspaces は保持中のワークスペース数をゲージとして公開する。
func (c *Collector) WatchWorkspaces(count func() int) {
	c.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "costaazul_active_workspaces",
		Help: "メモリ上に保持しているセッション別ワークスペースの数",
	}, func() float64 { return float64(count()) }))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ MetricsCollector = (*Collector)(nil)
