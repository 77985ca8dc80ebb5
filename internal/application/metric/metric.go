package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики - количество запросов
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - время обработки запросов
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - количество ошибок
	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Общее количество HTTP ошибок",
		},
		[]string{"method", "endpoint", "status"},
	)

	// WS метрики - количество активных соединений
	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Количество активных WebSocket соединений",
		},
	)

	meetingOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_operations_total",
			Help: "Количество операций над встречами по результату",
		},
		[]string{"operation", "result"},
	)

	// Ошибки побочных эффектов (рассылка, почта, планировщик), которые не откатывают запись
	sideEffectFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_side_effect_failures_total",
			Help: "Количество неуспешных побочных эффектов по стадиям",
		},
		[]string{"stage"},
	)

	remindersArmed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminders_armed",
			Help: "Количество взведенных напоминаний",
		},
	)

	remindersFiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_fired_total",
			Help: "Количество сработавших напоминаний",
		},
	)
)

// RecordHTTPMetrics записывает метрики HTTP запроса
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())

	if status >= 400 {
		httpErrorsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	}
}

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}

// RecordMeetingOperation считает create/edit/delete с результатом ok или кодом ошибки
func RecordMeetingOperation(operation, result string) {
	meetingOperationsTotal.WithLabelValues(operation, result).Inc()
}

func RecordSideEffectFailure(stage string) {
	sideEffectFailuresTotal.WithLabelValues(stage).Inc()
}

func SetRemindersArmed(count int) {
	remindersArmed.Set(float64(count))
}

func IncrementRemindersFired() {
	remindersFiredTotal.Inc()
}
