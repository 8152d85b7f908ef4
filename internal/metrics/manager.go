package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the service metrics and implements streak.Recorder.
type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterStreakUpdates prometheus.Counter
	CounterStreakResets  prometheus.Counter
	CounterDegraded      *prometheus.CounterVec

	// gauges
	GaugeLastStreak prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("streaklog", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "route", "status"}),
		CounterStreakUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "streak_updates_total",
			Help:      "The total number of persisted streak updates",
		}),
		CounterStreakResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "streak_resets_total",
			Help:      "The total number of streaks reset by a missed scheduled day",
		}),
		CounterDegraded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_degraded_total",
			Help:      "Store calls that failed and fell back to a safe default",
		}, []string{"op"}),
		GaugeLastStreak: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_streak_value",
			Help:      "Streak value produced by the most recent update",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Manager) StreakUpdated(current int) {
	m.CounterStreakUpdates.Inc()
	m.GaugeLastStreak.Set(float64(current))
}

func (m *Manager) StreakReset() {
	m.CounterStreakResets.Inc()
}

func (m *Manager) StoreDegraded(op string) {
	m.CounterDegraded.WithLabelValues(op).Inc()
}

// GinMiddleware records request count and duration per route template.
func (m *Manager) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HistRequestDuration.Observe(time.Since(begin).Seconds())
		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
