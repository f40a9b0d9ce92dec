package httpserver

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/skin-hub/internal/analytics"
	"github.com/fdg312/skin-hub/internal/config"
	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/reports"
	"github.com/fdg312/skin-hub/internal/samples"
	"github.com/fdg312/skin-hub/internal/summaries"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:           8080,
		Blob:           config.BlobConfig{Mode: config.BlobModeLocal, LocalDir: t.TempDir()},
		AI:             config.AIConfig{Mode: config.AIModeMock, Timeout: 2 * time.Second},
		MetricsEnabled: true,
	}

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := map[string]string{
		"status":     "ok",
		"storage":    storageModeMemory,
		"ai":         "mock",
		"blob":       config.BlobModeLocal,
		"ai_breaker": "closed",
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("expected %s=%q, got %q", k, v, body[k])
		}
	}
}

func TestHealthzOmitsBreakerWhenAIDisabled(t *testing.T) {
	cfg := &config.Config{
		Blob: config.BlobConfig{Mode: config.BlobModeLocal, LocalDir: t.TempDir()},
		AI:   config.AIConfig{Mode: config.AIModeOff},
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer srv.Close()

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["ai"] != config.AIModeOff {
		t.Errorf("expected ai=%q, got %q", config.AIModeOff, body["ai"])
	}
	if _, ok := body["ai_breaker"]; ok {
		t.Errorf("expected no ai_breaker without a guarded provider, got %q", body["ai_breaker"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// Generate at least one labelled request first.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_requests_total") {
		t.Error("expected http_requests_total in metrics output")
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := &config.Config{
		Blob: config.BlobConfig{Mode: config.BlobModeLocal, LocalDir: t.TempDir()},
		AI:   config.AIConfig{Mode: config.AIModeOff},
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer srv.Close()

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 with metrics disabled, got %d", rr.Code)
	}
}

func TestEndToEnd_SyncSummaryReport(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	profileID := uuid.New()

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	// 1. Sync two weeks of samples with a steady decline in dark circles.
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := make([]insights.FeatureSample, 0, 14)
	for i := 0; i < 14; i++ {
		batch = append(batch, insights.FeatureSample{
			Date: start.AddDate(0, 0, i).Format("2006-01-02"),
			Features: map[string]float64{
				"dark_circles": 80 - float64(i)*2,
				"brightness":   60,
				"texture":      55 + float64(i),
			},
			SleepScore:      70,
			SkinHealthScore: 65,
		})
	}
	rr := do(http.MethodPost, "/v1/samples/sync", samples.SyncSamplesRequest{ProfileID: profileID, Samples: batch})
	if rr.Code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var syncResp samples.SyncSamplesResponse
	if err := json.NewDecoder(rr.Body).Decode(&syncResp); err != nil {
		t.Fatalf("decode sync: %v", err)
	}
	if syncResp.Upserted != 14 {
		t.Errorf("expected 14 upserted, got %d", syncResp.Upserted)
	}

	// 2. Generate a summary for the last synced day.
	rr = do(http.MethodPost, "/v1/summaries", summaries.GenerateRequest{ProfileID: profileID, Date: "2026-03-14"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("summary: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var summary summaries.SummaryDTO
	if err := json.NewDecoder(rr.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Summary.DailySummary == "" {
		t.Error("expected non-empty daily summary")
	}
	if len(summary.Summary.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
	// History excludes the summarized day itself.
	if summary.Summary.Provenance.DataPointsAnalyzed != 13 {
		t.Errorf("expected 13 history points, got %d", summary.Summary.Provenance.DataPointsAnalyzed)
	}

	rr = do(http.MethodGet, "/v1/summaries/latest?profile_id="+profileID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("latest: expected 200, got %d", rr.Code)
	}

	// 3. Create a CSV report over the synced range.
	rr = do(http.MethodPost, "/v1/reports", reports.CreateReportRequest{
		ProfileID: profileID,
		From:      "2026-03-01",
		To:        "2026-03-14",
		Format:    reports.FormatCSV,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("report: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var report reports.ReportDTO
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Status != reports.StatusReady {
		t.Errorf("expected status ready, got %s", report.Status)
	}

	// 4. Download streams the local blob back.
	rr = do(http.MethodGet, fmt.Sprintf("/v1/reports/%s/download", report.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 15 {
		t.Errorf("expected header + 14 rows, got %d", len(records))
	}

	// 5. Delete removes it from the list.
	rr = do(http.MethodDelete, fmt.Sprintf("/v1/reports/%s", report.ID), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}
	rr = do(http.MethodGet, "/v1/reports?profile_id="+profileID.String(), nil)
	var list reports.ReportsResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Reports) != 0 {
		t.Errorf("expected no reports after delete, got %d", len(list.Reports))
	}

	// 6. Analytics read the same samples.
	for _, path := range []string{"statistics", "effectiveness", "correlations", "weekly"} {
		rr = do(http.MethodGet, fmt.Sprintf("/v1/analytics/%s?profile_id=%s&to=2026-03-14", path, profileID), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("analytics %s: expected 200, got %d: %s", path, rr.Code, rr.Body.String())
		}
	}
	var weekly analytics.WeeklyResponse
	if err := json.NewDecoder(rr.Body).Decode(&weekly); err != nil {
		t.Fatalf("decode weekly: %v", err)
	}
	if weekly.DataPoints != 7 || weekly.From != "2026-03-08" {
		t.Errorf("unexpected weekly window %+v (%d points)", weekly.Window, weekly.DataPoints)
	}
}
