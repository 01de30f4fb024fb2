// Package metrics holds the CRM business counters exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "invalid_credentials"
)

// Recorder counts HTTP requests, record writes, logins and rejected tokens.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	records         *prometheus.CounterVec
	logins          *prometheus.CounterVec
	tokenRejections *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"path", "method", "status"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			}, []string{"path", "method"},
		),
		records: f.NewCounterVec(
			prometheus.CounterOpts{Name: "crm_records_total", Help: "Record writes by entity and operation"},
			[]string{"entity", "op"},
		),
		logins: f.NewCounterVec(
			prometheus.CounterOpts{Name: "crm_logins_total", Help: "Login attempts by result"},
			[]string{"result"},
		),
		tokenRejections: f.NewCounterVec(
			prometheus.CounterOpts{Name: "crm_token_rejections_total", Help: "Bearer tokens rejected by reason"},
			[]string{"reason"},
		),
	}
}

// Request observes one served HTTP request. path is the route template.
func (r *Recorder) Request(path, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(path, method).Observe(d.Seconds())
}

func (r *Recorder) Record(entity, op string) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(entity, op).Inc()
}

func (r *Recorder) Login(result string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(result).Inc()
}

func (r *Recorder) TokenRejected(reason string) {
	if r == nil {
		return
	}
	r.tokenRejections.WithLabelValues(reason).Inc()
}
