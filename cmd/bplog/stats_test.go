package bplog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/model"
	"github.com/zzanghsi8873/bplog/internal/service"
)

func TestSparkline(t *testing.T) {
	t.Parallel()
	readings := []model.Reading{{Systolic: 110}, {Systolic: 120}, {Systolic: 130}, {Systolic: 140}}
	got := sparkline(readings, func(r model.Reading) float64 { return float64(r.Systolic) })
	if len([]rune(got)) != 4 {
		t.Fatalf("expected one glyph per reading, got %q", got)
	}
	if !strings.HasPrefix(got, ".") || !strings.HasSuffix(got, "@") {
		t.Fatalf("expected low-to-high glyphs, got %q", got)
	}
	flat := sparkline(readings[:2], func(model.Reading) float64 { return 5 })
	if flat != ".." {
		t.Fatalf("expected flat sparkline, got %q", flat)
	}
	if sparkline(nil, nil) != "" {
		t.Fatalf("expected empty sparkline for no readings")
	}
}

func TestHorizontalBar(t *testing.T) {
	t.Parallel()
	if got := horizontalBar(10, 10, 24); got != strings.Repeat("#", 24) {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := horizontalBar(1, 1000, 24); got != "#" {
		t.Fatalf("expected minimum one-cell bar, got %q", got)
	}
	if got := horizontalBar(0, 10, 24); got != "" {
		t.Fatalf("expected empty bar for zero, got %q", got)
	}
}

func TestPrintStatsEmptyAndCharts(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	empty := service.StatsReport{WindowDays: 7, From: now.AddDate(0, 0, -7), To: now, Summary: service.EmptyStats()}
	var buf bytes.Buffer
	printStats(&buf, empty, "mmHg", false)
	if !strings.Contains(buf.String(), "No readings in this window.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}

	latest := model.Reading{Systolic: 142, Diastolic: 92, MeasuredAt: now}
	status := bp.Classify(142, 92)
	report := service.StatsReport{
		WindowDays:   7,
		From:         now.AddDate(0, 0, -7),
		To:           now,
		Summary:      service.StatsSummary{Count: 1, Average: service.Averages{Systolic: 142, Diastolic: 92}, Latest: &latest, Trend: []model.Reading{latest}},
		LatestStatus: &status,
		Breakdown:    bp.Histogram{VeryHigh: 1},
	}
	buf.Reset()
	printStats(&buf, report, "mmHg", false)
	out := buf.String()
	if !strings.Contains(out, "Latest: 142/92 mmHg") || !strings.Contains(out, "Status mix:") {
		t.Fatalf("unexpected stats output %q", out)
	}
	buf.Reset()
	printStats(&buf, report, "mmHg", true)
	if strings.Contains(buf.String(), "Status mix:") {
		t.Fatalf("expected charts suppressed, got %q", buf.String())
	}
}

func TestWindowChoicesInStatsHelp(t *testing.T) {
	if got := windowChoices(); got != "7, 30, 90 or 365" {
		t.Fatalf("unexpected window choices %q", got)
	}
	out, err := execute(t, "stats", "--help")
	if err != nil {
		t.Fatalf("execute stats help: %v", err)
	}
	if !strings.Contains(out, "7, 30, 90 or 365 are typical") {
		t.Fatalf("expected standard windows in help, got %q", out)
	}
}
