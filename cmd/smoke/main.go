package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
	smokeDays      = 14
)

var (
	apiBase   string
	profileID string
	client    = &http.Client{
		Timeout: 30 * time.Second,
		// Keep presigned redirects visible to the download step.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	lastDate string
	firstDay string
	reportID string
)

func main() {
	fmt.Println("=== Skin Hub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	profileID = getEnv("SMOKE_PROFILE_ID", uuid.NewString())

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Profile ID: %s\n", profileID)
	fmt.Println()

	today := time.Now().UTC()
	lastDate = today.Format("2006-01-02")
	firstDay = today.AddDate(0, 0, -(smokeDays - 1)).Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Sync Samples", testSyncSamples},
		{"Generate Summary", testGenerateSummary},
		{"Latest Summary", testLatestSummary},
		{"Weekly Analysis", testWeeklyAnalysis},
		{"Create Report (CSV)", testCreateReport},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	var health map[string]string
	if err := doJSON(http.MethodGet, "/healthz", nil, http.StatusOK, &health); err != nil {
		return err
	}
	if health["status"] != "ok" {
		return fmt.Errorf("unexpected status %q", health["status"])
	}
	fmt.Printf("(storage=%s ai=%s blob=%s) ", health["storage"], health["ai"], health["blob"])
	return nil
}

func testSyncSamples() error {
	start, _ := time.Parse("2006-01-02", firstDay)

	batch := make([]map[string]any, 0, smokeDays)
	for i := 0; i < smokeDays; i++ {
		batch = append(batch, map[string]any{
			"date": start.AddDate(0, 0, i).Format("2006-01-02"),
			"features": map[string]float64{
				"dark_circles": 70 - float64(i),
				"puffiness":    60,
				"brightness":   55 + float64(i),
				"texture":      62,
			},
			"sleep_score":       72,
			"skin_health_score": 68,
			"routine": map[string]any{
				"sleep_hours":  7.5,
				"water_intake": 2.0,
				"product_used": "vitamin C serum, sunscreen",
			},
		})
	}

	var result struct {
		Upserted int `json:"upserted"`
	}
	payload := map[string]any{"profile_id": profileID, "samples": batch}
	if err := doJSON(http.MethodPost, "/v1/samples/sync", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Upserted != smokeDays {
		return fmt.Errorf("expected %d upserted, got %d", smokeDays, result.Upserted)
	}
	return nil
}

func testGenerateSummary() error {
	var result struct {
		Summary struct {
			DailySummary string `json:"daily_summary"`
			Provenance   struct {
				Variant string `json:"variant"`
				Path    string `json:"path"`
			} `json:"provenance"`
		} `json:"summary"`
	}
	payload := map[string]any{"profile_id": profileID, "date": lastDate}
	if err := doJSON(http.MethodPost, "/v1/summaries", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.Summary.DailySummary == "" {
		return fmt.Errorf("empty daily summary")
	}
	fmt.Printf("(variant=%s path=%s) ", result.Summary.Provenance.Variant, result.Summary.Provenance.Path)
	return nil
}

func testLatestSummary() error {
	var result struct {
		Date string `json:"date"`
	}
	if err := doJSON(http.MethodGet, "/v1/summaries/latest?profile_id="+profileID, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Date != lastDate {
		return fmt.Errorf("expected latest date %s, got %s", lastDate, result.Date)
	}
	return nil
}

func testWeeklyAnalysis() error {
	var result struct {
		DataPoints int    `json:"data_points"`
		Summary    string `json:"weekly_summary"`
	}
	if err := doJSON(http.MethodGet, "/v1/analytics/weekly?profile_id="+profileID+"&to="+lastDate, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.DataPoints != 7 || result.Summary == "" {
		return fmt.Errorf("unexpected weekly analysis: %d points, summary %q", result.DataPoints, result.Summary)
	}
	return nil
}

func testCreateReport() error {
	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	payload := map[string]any{
		"profile_id": profileID,
		"from":       firstDay,
		"to":         lastDate,
		"format":     "csv",
	}
	if err := doJSON(http.MethodPost, "/v1/reports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no report id returned")
	}
	reportID = result.ID
	return nil
}

func testListReports() error {
	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := doJSON(http.MethodGet, "/v1/reports?profile_id="+profileID, nil, http.StatusOK, &result); err != nil {
		return err
	}
	for _, r := range result.Reports {
		if r.ID == reportID {
			return nil
		}
	}
	return fmt.Errorf("report %s not in list", reportID)
}

func testDownloadReport() error {
	req, err := http.NewRequest(http.MethodGet, apiBase+"/v1/reports/"+reportID+"/download", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusFound:
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}
		fmt.Printf("(redirect) ")
		return nil
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("empty report body")
		}
		fmt.Printf("(%d bytes) ", len(data))
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
}

func testDeleteReport() error {
	return doJSON(http.MethodDelete, "/v1/reports/"+reportID, nil, http.StatusNoContent, nil)
}

// doJSON sends payload as JSON and decodes the response into out when it is
// non-nil.
func doJSON(method, path string, payload any, wantStatus int, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
