package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP requests by route template, method and status
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	quizzesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizzes_created_total",
			Help: "Total number of compatibility quizzes created",
		},
	)

	// status: success/failure
	quizSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz submissions",
		},
		[]string{"status"},
	)

	submissionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_submission_score_ratio",
			Help:    "Share of correct answers per submission",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	questionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_cache_lookups_total",
			Help: "Question set lookups by outcome",
		},
		[]string{"outcome"},
	)
)

func QuizCreated() {
	quizzesCreated.Inc()
}

func SubmissionRecorded(score, answered int) {
	quizSubmissions.WithLabelValues("success").Inc()
	if answered > 0 {
		submissionScore.Observe(float64(score) / float64(answered))
	}
}

func SubmissionFailed() {
	quizSubmissions.WithLabelValues("failure").Inc()
}

func CacheHit()  { questionCacheLookups.WithLabelValues("hit").Inc() }
func CacheMiss() { questionCacheLookups.WithLabelValues("miss").Inc() }

// Middleware records count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
