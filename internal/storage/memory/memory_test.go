package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

func TestSamplesUpsertAndList(t *testing.T) {
	ctx := context.Background()
	st := New()
	profileID := uuid.New()
	other := uuid.New()

	for _, date := range []string{"2026-03-03", "2026-03-01", "2026-03-02"} {
		if err := st.UpsertSample(ctx, profileID, date, []byte(`{"v":1}`)); err != nil {
			t.Fatalf("UpsertSample failed: %v", err)
		}
	}
	if err := st.UpsertSample(ctx, profileID, "2026-03-02", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("UpsertSample failed: %v", err)
	}
	if err := st.UpsertSample(ctx, other, "2026-03-02", []byte(`{"v":3}`)); err != nil {
		t.Fatalf("UpsertSample failed: %v", err)
	}

	rows, err := st.ListSamples(ctx, profileID, "", "")
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Date != "2026-03-01" || rows[2].Date != "2026-03-03" {
		t.Errorf("rows not ascending: %s..%s", rows[0].Date, rows[2].Date)
	}
	if string(rows[1].Payload) != `{"v":2}` {
		t.Errorf("expected overwritten payload, got %s", rows[1].Payload)
	}

	rows, _ = st.ListSamples(ctx, profileID, "2026-03-02", "2026-03-02")
	if len(rows) != 1 {
		t.Errorf("expected 1 row in range, got %d", len(rows))
	}
}

func TestSummariesLatest(t *testing.T) {
	ctx := context.Background()
	st := New()
	profileID := uuid.New()

	if _, err := st.GetLatestSummary(ctx, profileID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := &storage.SummaryRecord{
			ProfileID: profileID,
			Date:      base.AddDate(0, 0, i).Format("2006-01-02"),
			CreatedAt: base.AddDate(0, 0, i),
		}
		if err := st.InsertSummary(ctx, rec); err != nil {
			t.Fatalf("InsertSummary failed: %v", err)
		}
		if rec.ID == uuid.Nil {
			t.Fatal("expected ID to be assigned")
		}
	}

	latest, err := st.GetLatestSummary(ctx, profileID)
	if err != nil {
		t.Fatalf("GetLatestSummary failed: %v", err)
	}
	if latest.Date != "2026-03-03" {
		t.Errorf("expected latest 2026-03-03, got %s", latest.Date)
	}

	list, _ := st.ListSummaries(ctx, profileID, 2)
	if len(list) != 2 || list[1].Date != "2026-03-02" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestReportsLifecycle(t *testing.T) {
	ctx := context.Background()
	st := New()
	profileID := uuid.New()

	report := &storage.ReportMeta{ProfileID: profileID, Format: "csv", FromDate: "2026-03-01", ToDate: "2026-03-07", Status: "ready"}
	if err := st.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	got, err := st.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.Format != "csv" {
		t.Errorf("expected csv, got %s", got.Format)
	}

	list, _ := st.ListReports(ctx, profileID, 10, 5)
	if len(list) != 0 {
		t.Errorf("expected empty page, got %d", len(list))
	}

	if err := st.DeleteReport(ctx, report.ID); err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}
	if _, err := st.GetReport(ctx, report.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteReport(ctx, report.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
