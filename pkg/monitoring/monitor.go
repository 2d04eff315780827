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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	ComputationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "co_attainment_computations_total",
			Help: "Assessment computations by assessment",
		},
		[]string{"assessment"},
	)

	StudentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "co_attainment_students_total",
			Help: "Student rows processed by assessment",
		},
		[]string{"assessment"},
	)

	RemedialStudents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "co_attainment_remedial_students_total",
			Help: "Students flagged for remedial work by assessment",
		},
		[]string{"assessment"},
	)

	RoutedCOCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "co_attainment_routed_co_total",
			Help: "Routing decisions published per slot and CO",
		},
		[]string{"slot", "co"},
	)

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "co_attainment_submissions_total",
			Help: "Backend submissions by assessment and terminal status",
		},
		[]string{"assessment", "status"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ComputationCounter,
			StudentsProcessed,
			RemedialStudents,
			RoutedCOCounter,
			SubmissionCounter,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
