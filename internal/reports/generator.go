package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/summaries"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// SampleLister returns the samples of a profile in [from, to], ascending.
type SampleLister interface {
	List(ctx context.Context, profileID uuid.UUID, from, to string) ([]insights.FeatureSample, error)
}

// LatestSummaryProvider returns the most recent stored summary.
type LatestSummaryProvider interface {
	Latest(ctx context.Context, profileID uuid.UUID) (*summaries.SummaryDTO, error)
}

// Generator generates PDF/CSV reports
type Generator struct {
	samples   SampleLister
	summaries LatestSummaryProvider
	catalog   *insights.Catalog
}

// NewGenerator creates a new report generator. summaries may be nil; a nil
// catalog falls back to insights.DefaultCatalog.
func NewGenerator(samples SampleLister, summaries LatestSummaryProvider, catalog *insights.Catalog) *Generator {
	if catalog == nil {
		catalog = insights.DefaultCatalog()
	}
	return &Generator{samples: samples, summaries: summaries, catalog: catalog}
}

// GenerateReport generates a report and returns the data
func (g *Generator) GenerateReport(ctx context.Context, req CreateReportRequest) ([]byte, error) {
	items, err := g.samples.List(ctx, req.ProfileID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples: %w", err)
	}

	switch req.Format {
	case FormatPDF:
		latest, err := g.latestSummary(ctx, req.ProfileID)
		if err != nil {
			return nil, err
		}
		return g.generatePDF(req, items, latest)
	case FormatCSV:
		return g.generateCSV(items)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

func (g *Generator) latestSummary(ctx context.Context, profileID uuid.UUID) (*summaries.SummaryDTO, error) {
	if g.summaries == nil {
		return nil, nil
	}
	latest, err := g.summaries.Latest(ctx, profileID)
	if errors.Is(err, summaries.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest summary: %w", err)
	}
	return latest, nil
}

// generateCSV writes one row per sample with a column per feature seen in
// the range.
func (g *Generator) generateCSV(items []insights.FeatureSample) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	features := featureKeys(items)
	header := append([]string{"date", "sleep_score", "skin_health_score", "sleep_hours", "water_intake", "product_used"}, features...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		row := []string{
			item.Date,
			formatScore(item.SleepScore),
			formatScore(item.SkinHealthScore),
			formatOptional(item.Routine.SleepHours),
			formatOptional(item.Routine.WaterIntake),
			csvSafe(item.Routine.ProductNotes),
		}
		for _, f := range features {
			if v, ok := item.Features[f]; ok {
				row = append(row, formatScore(v))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// featureStats is the per-feature aggregate printed in the PDF.
type featureStats struct {
	Name    string
	First   float64
	Last    float64
	Average float64
}

func calculateStats(items []insights.FeatureSample) []featureStats {
	var stats []featureStats
	for _, f := range featureKeys(items) {
		s := featureStats{Name: f}
		count := 0
		for _, item := range items {
			v, ok := item.Features[f]
			if !ok {
				continue
			}
			if count == 0 {
				s.First = v
			}
			s.Last = v
			s.Average += v
			count++
		}
		if count > 0 {
			s.Average /= float64(count)
		}
		stats = append(stats, s)
	}
	return stats
}

// generatePDF renders with the core Arial font, so all text is reduced to ASCII.
func (g *Generator) generatePDF(req CreateReportRequest, items []insights.FeatureSample, latest *summaries.SummaryDTO) ([]byte, error) {
	catalog := g.catalog
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Skin Health Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Skin Health Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s - %s", req.From, req.To))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Samples: %d", len(items)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Features")
	pdf.Ln(8)

	stats := calculateStats(items)
	if len(stats) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, "No data")
		pdf.Ln(8)
	} else {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(50, 6, "Feature", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "First", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Last", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Average", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, "Change", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Level", "1", 1, "C", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, s := range stats {
			pdf.CellFormat(50, 6, asciiOnly(catalog.DisplayName(s.Name)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, formatScore(s.First), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatScore(s.Last), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatScore(s.Average), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, formatChange(s.Last-s.First), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, catalog.Severity(s.Name, s.Last), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(6)
	}

	if latest != nil {
		summary := latest.Summary
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Latest summary (%s)", latest.Date))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, asciiOnly(summary.DailySummary), "", "L", false)
		pdf.Ln(2)

		writeList(pdf, "Insights", insightTexts(summary.KeyInsights))
		writeList(pdf, "Recommendations", summary.RecommendationTexts())
		if tip := asciiOnly(summary.LifestyleTip); tip != "" {
			writeList(pdf, "Lifestyle", []string{tip})
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func writeList(pdf *gofpdf.Fpdf, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, title)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		if line = asciiOnly(line); line == "" {
			continue
		}
		pdf.MultiCell(0, 5, "- "+line, "", "L", false)
	}
	pdf.Ln(2)
}

func insightTexts(items []insights.Insight) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}

// asciiOnly drops runes the core PDF fonts cannot render (emoji, arrows).
func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// csvSafe neutralizes free text that a spreadsheet would evaluate as a formula.
func csvSafe(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}

func featureKeys(items []insights.FeatureSample) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		for k := range item.Features {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func formatChange(v float64) string {
	v = math.Round(v*10) / 10
	if v > 0 {
		return "+" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatScore(*v)
}
