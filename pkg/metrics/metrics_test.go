package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestBillingMetricsCountsCharges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBillingMetrics(reg)

	m.RecordCharge("protect", 5)
	m.RecordCharge("protect", 0)
	m.RecordCharge("convert_docx", 25)
	m.IncFailure("convert_docx")

	if got := testutil.ToFloat64(m.transactions.WithLabelValues("protect")); got != 2 {
		t.Fatalf("expected 2 protect transactions, got %f", got)
	}
	if got := testutil.ToFloat64(m.charityCents); got != 30 {
		t.Fatalf("expected 30 charity cents, got %f", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("convert_docx")); got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}
}

func TestDocumentMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDocumentMetrics(reg)

	m.Observe("protect", ResultSuccess, 120*time.Millisecond)
	m.Observe("protect", ResultFailure, time.Second)
	m.Observe("", ResultQuota, 0)

	if got := testutil.ToFloat64(m.operations.WithLabelValues("protect", ResultSuccess)); got != 1 {
		t.Fatalf("expected 1 success, got %f", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("unknown", ResultQuota)); got != 1 {
		t.Fatalf("expected empty operation to be labelled unknown, got %f", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 2 {
		t.Fatalf("expected 2 histogram series, got %d", got)
	}
}

func TestDocumentDurationHistogramSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDocumentMetrics(reg)

	m.Observe("convert", ResultSuccess, 2*time.Second)
	m.Observe("convert", ResultFailure, 40*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() != "pdflex_document_operation_duration_seconds" {
			continue
		}
		if mf.GetType() != dto.MetricType_HISTOGRAM {
			t.Fatalf("expected histogram, got %s", mf.GetType())
		}
		hist = mf.GetMetric()[0].GetHistogram()
	}
	if hist == nil {
		t.Fatal("duration histogram not gathered")
	}
	if hist.GetSampleCount() != 2 {
		t.Fatalf("expected 2 samples, got %d", hist.GetSampleCount())
	}
	if sum := hist.GetSampleSum(); sum < 2.03 || sum > 2.05 {
		t.Fatalf("unexpected sample sum %f", sum)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var b *BillingMetrics
	b.RecordCharge("protect", 5)
	b.IncFailure("protect")

	NewBillingMetrics(nil).RecordCharge("protect", 5)

	var d *DocumentMetrics
	d.Observe("upload", ResultSuccess, time.Millisecond)
	NewDocumentMetrics(nil).Observe("upload", ResultSuccess, time.Millisecond)
}
