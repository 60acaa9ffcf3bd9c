package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"

	RealtimePublishTotal   = "realtime_publish_total"
	RealtimePublishFailure = "realtime_publish_failure"
	RealtimeDroppedEvents  = "realtime_dropped_events"
	RealtimeActiveSessions = "realtime_active_sessions"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		RealtimeActiveSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: RealtimeActiveSessions,
			Help: "Number of open realtime websocket sessions",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "path", "status_code"}),
		RealtimePublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RealtimePublishTotal,
			Help: "Count of all realtime events published",
		}, []string{"op"}),
		RealtimePublishFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RealtimePublishFailure,
			Help: "Count of realtime events that could not be published",
		}, []string{"op"}),
		RealtimeDroppedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RealtimeDroppedEvents,
			Help: "Count of realtime events dropped because a session buffer was full",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "path", "status_code"}),
	}
)
