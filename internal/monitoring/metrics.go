// Package monitoring exposes Prometheus metrics for HTTP traffic and the
// grading, planning and gamification flows.
package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ExamsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypilot_exams_graded_total",
			Help: "Exam attempts graded, by source and letter grade",
		},
		[]string{"source", "grade"},
	)

	ExamScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studypilot_exam_score_percent",
			Help:    "Distribution of graded exam scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	PlansGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studypilot_study_plans_generated_total",
			Help: "Study plans generated",
		},
	)

	XPAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypilot_xp_awarded_total",
			Help: "XP awarded, by activity",
		},
		[]string{"activity"},
	)

	AttemptsPersisted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studypilot_attempts_persisted_total",
			Help: "Attempts written by the attempt worker, by outcome",
		},
		[]string{"outcome"},
	)

	ActiveExamStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "studypilot_exam_streams_active",
			Help: "Open mock exam WebSocket streams",
		},
	)
)

var initOnce sync.Once

// Init registers all collectors with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ExamsGraded,
			ExamScore,
			PlansGenerated,
			XPAwarded,
			AttemptsPersisted,
			ActiveExamStreams,
		)
	})
}

// MetricsMiddleware records request counts and latencies by route pattern.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// PrometheusHandler serves the default registry.
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
