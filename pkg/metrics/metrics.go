package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks settlement activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	OfflineCreated       prometheus.Counter
	OfflineCommitted     prometheus.Counter
	OfflineRejected      *prometheus.CounterVec
	DoubleSpends         *prometheus.CounterVec
	ComplianceViolations *prometheus.CounterVec
	SyncRecords          *prometheus.CounterVec
	SyncPassDuration     *prometheus.HistogramVec
	RemoteCalls          *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
}

// New registers all settlement metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OfflineCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "cbdc_offline_created_total",
			Help: "Offline transactions reserved",
		}),
		OfflineCommitted: f.NewCounter(prometheus.CounterOpts{
			Name: "cbdc_offline_committed_total",
			Help: "Offline transactions committed into the ledger",
		}),
		OfflineRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_offline_rejected_total",
			Help: "Offline transactions rejected, by reason",
		}, []string{"reason"}),
		DoubleSpends: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_double_spend_detected_total",
			Help: "Nullifier re-registration attempts, by admission point",
		}, []string{"point"}),
		ComplianceViolations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_compliance_violations_total",
			Help: "Compliance checks failed, by violated limit",
		}, []string{"limit"}),
		SyncRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_sync_records_total",
			Help: "Records processed by sync hops, by tier and outcome",
		}, []string{"tier", "outcome"}),
		SyncPassDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cbdc_sync_pass_duration_seconds",
			Help:    "Duration of one sync pass over one account or batch",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"tier"}),
		RemoteCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_remote_calls_total",
			Help: "Node-to-node calls, by operation and outcome",
		}, []string{"op", "outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_http_requests_total",
			Help: "HTTP requests served, by route template, method and status",
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncOfflineCreated() {
	if m == nil {
		return
	}
	m.OfflineCreated.Inc()
}

func (m *Metrics) IncOfflineCommitted() {
	if m == nil {
		return
	}
	m.OfflineCommitted.Inc()
}

func (m *Metrics) IncOfflineRejected(reason string) {
	if m == nil {
		return
	}
	m.OfflineRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncDoubleSpend(point string) {
	if m == nil {
		return
	}
	m.DoubleSpends.WithLabelValues(point).Inc()
}

func (m *Metrics) IncComplianceViolation(limit string) {
	if m == nil {
		return
	}
	m.ComplianceViolations.WithLabelValues(limit).Inc()
}

func (m *Metrics) IncSyncRecord(tier, outcome string) {
	if m == nil {
		return
	}
	m.SyncRecords.WithLabelValues(tier, outcome).Inc()
}

// ObserveSyncPass records the duration of a pass started at start.
func (m *Metrics) ObserveSyncPass(tier string, start time.Time) {
	if m == nil {
		return
	}
	m.SyncPassDuration.WithLabelValues(tier).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncRemoteCall(op, outcome string) {
	if m == nil {
		return
	}
	m.RemoteCalls.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) IncHTTPRequest(route, method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
