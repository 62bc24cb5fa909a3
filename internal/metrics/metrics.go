package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	// OutcomeSkipped - опрос пропущен, потому что предыдущее обновление еще выполняется
	OutcomeSkipped = "skipped"
	// OutcomeStale - результат обновления отброшен из-за более новой мутации
	OutcomeStale = "stale"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coe",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coe",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	apiClientRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coe",
			Name:      "api_client_requests_total",
			Help:      "Incident API calls made by the console, partitioned by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	storeRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coe",
			Name:      "store_refresh_total",
			Help:      "Incident store refresh cycles, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register подключает коллекторы к реестру Prometheus.
// Повторная регистрация не считается ошибкой.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		apiClientRequestsTotal,
		storeRefreshTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// GinMiddleware записывает метрики HTTP-запросов
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Шаблон маршрута вместо сырого пути, чтобы не плодить метки
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveAPICall учитывает обращение консоли к Incident API
func ObserveAPICall(op string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	apiClientRequestsTotal.WithLabelValues(op, outcome).Inc()
}

// ObserveRefresh учитывает цикл обновления хранилища инцидентов
func ObserveRefresh(outcome string) {
	storeRefreshTotal.WithLabelValues(outcome).Inc()
}
