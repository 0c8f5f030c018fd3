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
	RecordHTTPStatus(statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordAuthFailure(reason string)
	RecordLikeToggled(targetType string, liked bool)
	RecordPostViewed()
	RecordMessageSent()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus   *prometheus.CounterVec
	httpLatency  prometheus.Histogram
	authFailures *prometheus.CounterVec
	likesToggled *prometheus.CounterVec
	postViews    prometheus.Counter
	messagesSent prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joribhaejo_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "joribhaejo_http_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joribhaejo_auth_failures_total",
			Help: "トークン検証失敗の理由別合計数",
		}, []string{"reason"}),
		likesToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joribhaejo_likes_toggled_total",
			Help: "いいねトグルの対象種別・結果別合計数",
		}, []string{"target_type", "result"}),
		postViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "joribhaejo_post_views_total",
			Help: "投稿詳細の閲覧数合計",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "joribhaejo_messages_sent_total",
			Help: "送信されたメッセージの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.httpLatency,
		c.authFailures,
		c.likesToggled,
		c.postViews,
		c.messagesSent,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordAuthFailure はトークン検証失敗を理由付きで記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordLikeToggled はいいねトグルの結果を記録する。
// likedがtrueなら「いいね」、falseなら「いいね解除」。
func (c *Collector) RecordLikeToggled(targetType string, liked bool) {
	result := "unliked"
	if liked {
		result = "liked"
	}
	c.likesToggled.WithLabelValues(targetType, result).Inc()
}

// RecordPostViewed は投稿詳細の閲覧を記録する。
func (c *Collector) RecordPostViewed() {
	c.postViews.Inc()
}

// RecordMessageSent はメッセージ送信を記録する。
func (c *Collector) RecordMessageSent() {
	c.messagesSent.Inc()
}

// Middleware はHTTPステータスとレイテンシを自動記録するミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusCapture{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			c.RecordHTTPStatus(rec.statusCode)
			c.RecordHTTPLatency(time.Since(start))
		})
	}
}

// statusCapture はステータスコード記録用のResponseWriterラッパー。
type statusCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sc *statusCapture) WriteHeader(code int) {
	if !sc.written {
		sc.statusCode = code
		sc.written = true
	}
	sc.ResponseWriter.WriteHeader(code)
}

func (sc *statusCapture) Write(b []byte) (int, error) {
	if !sc.written {
		sc.statusCode = http.StatusOK
		sc.written = true
	}
	return sc.ResponseWriter.Write(b)
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
