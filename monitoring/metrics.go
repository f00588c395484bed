package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	SchedulingsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedulings_closed_total",
			Help: "Schedulings closed, by closure reason",
		},
		[]string{"reason"},
	)

	// status is one of queued, sent, failed
	NotificationEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Scheduling notification emails, by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	LawyerCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawyer_search_cache_total",
			Help: "Lawyer search cache lookups, by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SchedulingsClosed)
	prometheus.MustRegister(NotificationEmails)
	prometheus.MustRegister(LawyerCacheLookups)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
