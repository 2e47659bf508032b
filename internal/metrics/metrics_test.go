package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nao1215/copychecker/internal/model"
)

// TestMetrics_Record tests that records update the collectors.
func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	report := &model.AnalysisReport{
		Groups: []model.LocatedIssueGroup{
			{Path: "p", Issues: []model.Issue{{Kind: model.KindDoubleSpace}, {Kind: model.KindSpelling}, {Kind: model.KindSpelling}}},
		},
	}
	m.RecordAnalysis(report, 4, time.Second, nil)
	m.RecordRemoteCall(time.Millisecond, errors.New("boom"))
	m.RecordMessage("ping", "ok")

	if got := testutil.ToFloat64(m.IssuesTotal.WithLabelValues("spelling")); got != 2 {
		t.Errorf("expected 2 spelling issues, got %v", got)
	}
	if got := testutil.ToFloat64(m.SegmentsTotal); got != 4 {
		t.Errorf("expected 4 segments, got %v", got)
	}
	if got := testutil.ToFloat64(m.RemoteCalls.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed remote call, got %v", got)
	}
	if got := testutil.ToFloat64(m.MessagesTotal.WithLabelValues("ping", "ok")); got != 1 {
		t.Errorf("expected 1 ping, got %v", got)
	}
}

// TestMetrics_Nil tests that a nil collector ignores records.
func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordAnalysis(nil, 0, 0, nil)
	m.RecordRemoteCall(0, nil)
	m.RecordMessage("ping", "ok")
}
