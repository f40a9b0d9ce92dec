package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/samples"
	"github.com/fdg312/skin-hub/internal/storage/memory"
	"github.com/google/uuid"
)

type fixture struct {
	handler   *Handler
	service   *Service
	profileID uuid.UUID
}

// setup seeds ten days from 2026-03-01 with rising skin scores and retinol
// logged every day.
func setup(t *testing.T) fixture {
	t.Helper()
	sampleService := samples.NewService(memory.New())
	service := NewService(sampleService, insights.DefaultCatalog())
	service.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	profileID := uuid.New()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := make([]insights.FeatureSample, 0, 10)
	for i := 0; i < 10; i++ {
		batch = append(batch, insights.FeatureSample{
			Date:            start.AddDate(0, 0, i).Format(dateLayout),
			Features:        map[string]float64{"brightness": 50 + float64(2*i), "wrinkles": 60},
			SleepScore:      70,
			SkinHealthScore: 50 + float64(3*i),
			Routine:         insights.Routine{ProductNotes: "Retinol serum"},
		})
	}
	if _, err := sampleService.Sync(context.Background(), samples.SyncSamplesRequest{ProfileID: profileID, Samples: batch}); err != nil {
		t.Fatalf("seed samples: %v", err)
	}

	return fixture{handler: NewHandler(service), service: service, profileID: profileID}
}

func get(h http.HandlerFunc, path string, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHandleStatistics(t *testing.T) {
	f := setup(t)

	rr := get(f.handler.HandleStatistics, "/v1/analytics/statistics", url.Values{"profile_id": {f.profileID.String()}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	resp := decode[StatisticsResponse](t, rr)
	if resp.From != "2026-02-09" || resp.To != "2026-03-10" || resp.Days != DefaultDays {
		t.Errorf("unexpected window %+v", resp.Window)
	}
	if resp.TotalEntries != 10 || resp.BestSkin != 77 || resp.AverageSleep != 70 {
		t.Errorf("unexpected statistics %+v", resp.ProfileStatistics)
	}
	if resp.SkinTrend != insights.TrendImproving || resp.SleepTrend != insights.TrendStable {
		t.Errorf("unexpected trends skin=%s sleep=%s", resp.SkinTrend, resp.SleepTrend)
	}
}

func TestHandleEffectiveness(t *testing.T) {
	f := setup(t)

	rr := get(f.handler.HandleEffectiveness, "/v1/analytics/effectiveness", url.Values{"profile_id": {f.profileID.String()}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	resp := decode[EffectivenessResponse](t, rr)
	if resp.InsufficientData || len(resp.Products) != 1 {
		t.Fatalf("expected one rated product, got %+v", resp.RoutineAnalysis)
	}
	p := resp.Products[0]
	// Skin rises 3 per day: halves average 56 and 71.
	if p.Product != "retinol" || p.UsageDays != 10 || p.Effectiveness != 30 || p.Trend != insights.TrendImproving {
		t.Errorf("unexpected retinol rating %+v", p)
	}
	if len(resp.Insights) != 1 || resp.Insights[0].Type != insights.RoutineProductWorking {
		t.Errorf("unexpected routine insights %+v", resp.Insights)
	}
}

func TestHandleCorrelations(t *testing.T) {
	f := setup(t)

	rr := get(f.handler.HandleCorrelations, "/v1/analytics/correlations", url.Values{"profile_id": {f.profileID.String()}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	resp := decode[CorrelationsResponse](t, rr)
	if resp.InsufficientData || resp.Trust == nil {
		t.Fatalf("expected a full report, got %+v", resp.CorrelationReport)
	}
	if len(resp.Features) != 2 || resp.Features[0].Feature != "brightness" {
		t.Fatalf("unexpected feature improvements %+v", resp.Features)
	}
	if got := resp.Features[0].Products; len(got) != 1 || got[0] != "retinol" {
		t.Errorf("expected retinol to contribute to brightness, got %v", got)
	}
	if len(resp.Products) != 1 || resp.Products[0].Product != "retinol" {
		t.Errorf("unexpected product impacts %+v", resp.Products)
	}
}

func TestHandleWeekly(t *testing.T) {
	f := setup(t)

	rr := get(f.handler.HandleWeekly, "/v1/analytics/weekly", url.Values{
		"profile_id": {f.profileID.String()},
		"to":         {"2026-03-08"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	resp := decode[WeeklyResponse](t, rr)
	if resp.From != "2026-03-02" || resp.To != "2026-03-08" || resp.Days != DefaultWeeklyDays {
		t.Errorf("unexpected window %+v", resp.Window)
	}
	if resp.InsufficientData || resp.DataPoints != 7 {
		t.Fatalf("expected 7 data points, got %+v", resp.WeeklyAnalysis)
	}
	// Skin went from 53 to 71 over the window.
	if resp.Trends.SkinImprovement != 18 || resp.Trends.SleepImprovement != 0 {
		t.Errorf("unexpected score changes %+v", resp.Trends)
	}
	if want := "Positive progress this week - sleep improved by 0.0 points, skin by 18.0 points. Your routine is very consistent - keep it up!"; resp.Summary != want {
		t.Errorf("unexpected summary %q", resp.Summary)
	}
}

func TestHandleWeeklyInsufficientData(t *testing.T) {
	f := setup(t)

	rr := get(f.handler.HandleWeekly, "/v1/analytics/weekly", url.Values{
		"profile_id": {f.profileID.String()},
		"to":         {"2026-03-01"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	resp := decode[WeeklyResponse](t, rr)
	if !resp.InsufficientData {
		t.Fatalf("expected insufficient data, got %+v", resp.WeeklyAnalysis)
	}
}

func TestHandleErrors(t *testing.T) {
	f := setup(t)
	profile := f.profileID.String()

	tests := []struct {
		name     string
		params   url.Values
		wantCode string
	}{
		{"missing profile", url.Values{}, "invalid_request"},
		{"bad profile", url.Values{"profile_id": {"nope"}}, "invalid_request"},
		{"nil profile", url.Values{"profile_id": {uuid.Nil.String()}}, "invalid_request"},
		{"zero days", url.Values{"profile_id": {profile}, "days": {"0"}}, "invalid_days"},
		{"text days", url.Values{"profile_id": {profile}, "days": {"week"}}, "invalid_days"},
		{"too many days", url.Values{"profile_id": {profile}, "days": {"400"}}, "invalid_days"},
		{"bad to", url.Values{"profile_id": {profile}, "to": {"10.03.2026"}}, "invalid_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(f.handler.HandleStatistics, "/v1/analytics/statistics", tt.params)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			resp := decode[ErrorResponse](t, rr)
			if resp.Error.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, resp.Error.Code)
			}
		})
	}
}

type failingLister struct{}

func (failingLister) List(ctx context.Context, profileID uuid.UUID, from, to string) ([]insights.FeatureSample, error) {
	return nil, errors.New("connection reset")
}

func TestHandleStorageFailure(t *testing.T) {
	h := NewHandler(NewService(failingLister{}, nil))

	rr := get(h.HandleEffectiveness, "/v1/analytics/effectiveness", url.Values{"profile_id": {uuid.NewString()}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if resp := decode[ErrorResponse](t, rr); resp.Error.Code != "internal_error" {
		t.Errorf("unexpected error code %q", resp.Error.Code)
	}
}
