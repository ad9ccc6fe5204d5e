package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP 指标
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// 业务指标
var (
	draftSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "draft_sessions_active",
			Help: "Number of live authoring draft sessions",
		},
	)

	imageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Staged image bundle uploads by result",
		},
		[]string{"result"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push notification deliveries by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest 记录一次 HTTP 请求
func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// DraftOpened 草稿会话创建
func DraftOpened() { draftSessionsActive.Inc() }

// DraftClosed 草稿会话结束（提交成功或过期回收）
func DraftClosed() { draftSessionsActive.Dec() }

// RecordUpload 记录一次图片打包上传
func RecordUpload(result string) { imageUploadsTotal.WithLabelValues(result).Inc() }

// RecordNotification 记录一次推送
func RecordNotification(result string) { notificationsTotal.WithLabelValues(result).Inc() }
