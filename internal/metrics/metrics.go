// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordFoodAdded(category string)
	RecordFoodDeleted()
	RecordBulletinPosted(category string)
	RecordRejected(operation string, code string)
	RecordAuthAttempt(kind string, success bool)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	foodAdded      *prometheus.CounterVec
	foodDeleted    prometheus.Counter
	bulletinPosted *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	authAttempts   *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		foodAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchenmanual_food_added_total",
			Help: "登録された食材の合計数",
		}, []string{"category"}),
		foodDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitchenmanual_food_deleted_total",
			Help: "削除された食材の合計数",
		}),
		bulletinPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchenmanual_bulletin_posted_total",
			Help: "掲示板への投稿の合計数",
		}, []string{"category"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchenmanual_operation_rejected_total",
			Help: "入力エラー等で拒否された操作の合計数",
		}, []string{"operation", "code"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchenmanual_auth_attempts_total",
			Help: "パスワード認証の試行回数",
		}, []string{"kind", "result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchenmanual_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.foodAdded,
		c.foodDeleted,
		c.bulletinPosted,
		c.rejected,
		c.authAttempts,
		c.httpStatus,
	)

	return c
}

// RecordFoodAdded は食材の登録を記録する。
func (c *Collector) RecordFoodAdded(category string) {
	c.foodAdded.WithLabelValues(category).Inc()
}

// RecordFoodDeleted は食材の削除を記録する。
func (c *Collector) RecordFoodDeleted() {
	c.foodDeleted.Inc()
}

// RecordBulletinPosted は掲示板への投稿を記録する。
func (c *Collector) RecordBulletinPosted(category string) {
	c.bulletinPosted.WithLabelValues(category).Inc()
}

// RecordRejected は拒否された操作をエラーコード別に記録する。
func (c *Collector) RecordRejected(operation string, code string) {
	c.rejected.WithLabelValues(operation, code).Inc()
}

// RecordAuthAttempt はパスワード認証の試行を記録する。kindはviewerまたはeditor。
func (c *Collector) RecordAuthAttempt(kind string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.authAttempts.WithLabelValues(kind, result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type Nop struct{}

func (Nop) RecordFoodAdded(string)         {}
func (Nop) RecordFoodDeleted()             {}
func (Nop) RecordBulletinPosted(string)    {}
func (Nop) RecordRejected(string, string)  {}
func (Nop) RecordAuthAttempt(string, bool) {}
func (Nop) RecordHTTPStatus(int)           {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
