// Package metrics holds the Prometheus collectors of copychecker.
//
// All Record methods are safe to call on a nil *Metrics, so components can
// take an optional collector without nil checks at every call site.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nao1215/copychecker/internal/model"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	SegmentsTotal    prometheus.Counter
	IssuesTotal      *prometheus.CounterVec

	// Remote checker metrics
	RemoteCalls    *prometheus.CounterVec
	RemoteDuration prometheus.Histogram

	// Message boundary metrics
	MessagesTotal *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg registers with the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copychecker_analyses_total",
				Help: "Total number of page analyses",
			},
			[]string{"outcome"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "copychecker_analysis_duration_seconds",
				Help:    "Duration of page analyses",
				Buckets: prometheus.DefBuckets,
			},
		),
		SegmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "copychecker_segments_total",
				Help: "Total number of text segments analysed",
			},
		),
		IssuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copychecker_issues_total",
				Help: "Total number of issues found, by kind",
			},
			[]string{"kind"},
		),
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copychecker_remote_checks_total",
				Help: "Total number of grammar service calls",
			},
			[]string{"status"},
		),
		RemoteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "copychecker_remote_check_duration_seconds",
				Help:    "Duration of grammar service calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copychecker_messages_total",
				Help: "Total number of messages handled, by action and status",
			},
			[]string{"action", "status"},
		),
	}
}

// RecordAnalysis records a finished analysis and the issues of its report.
func (m *Metrics) RecordAnalysis(report *model.AnalysisReport, segments int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(duration.Seconds())
	m.SegmentsTotal.Add(float64(segments))
	for _, kc := range report.Summary() {
		m.IssuesTotal.WithLabelValues(string(kc.Kind)).Add(float64(kc.Count))
	}
}

// RecordRemoteCall records one grammar service call.
func (m *Metrics) RecordRemoteCall(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RemoteCalls.WithLabelValues(status).Inc()
	m.RemoteDuration.Observe(duration.Seconds())
}

// RecordMessage records one message handled by the message boundary.
func (m *Metrics) RecordMessage(action, status string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(action, status).Inc()
}
