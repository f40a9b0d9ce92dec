package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordGenerativeCall(t *testing.T) {
	before := testutil.ToFloat64(GenerativeFailures.WithLabelValues("timeout"))

	RecordGenerativeCall(50*time.Millisecond, "")
	if got := testutil.ToFloat64(GenerativeFailures.WithLabelValues("timeout")); got != before {
		t.Fatalf("success must not count as failure, got %v want %v", got, before)
	}

	RecordGenerativeCall(2*time.Second, "timeout")
	if got := testutil.ToFloat64(GenerativeFailures.WithLabelValues("timeout")); got != before+1 {
		t.Fatalf("expected failure counter %v, got %v", before+1, got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")
	before := testutil.ToFloat64(counter)

	RecordHTTPRequest("GET", "/healthz", 200, time.Millisecond)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected %v requests, got %v", before+1, got)
	}
}

func TestRecordSummary(t *testing.T) {
	counter := SummariesTotal.WithLabelValues("full", "deterministic")
	before := testutil.ToFloat64(counter)

	RecordSummary("full", "deterministic")

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected %v summaries, got %v", before+1, got)
	}
}
