package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

func seedPortable(t *testing.T, st store.Readings) {
	t.Helper()
	ctx := context.Background()
	inputs := []service.ReadingInput{
		{Systolic: 121, Diastolic: 79, Pulse: intPtr(66), MeasuredAt: time.Date(2026, 2, 1, 7, 30, 0, 0, time.Local), Notes: "morning, seated"},
		{Systolic: 138, Diastolic: 88, Pulse: intPtr(74), Weight: floatPtr(82.5), MeasuredAt: time.Date(2026, 2, 2, 21, 5, 0, 0, time.Local)},
	}
	for _, in := range inputs {
		if _, err := service.AddReading(ctx, st, "alice", in); err != nil {
			t.Fatalf("seed reading: %v", err)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, format := range []string{service.FormatCSV, service.FormatJSON} {
		src := store.NewMemory()
		seedPortable(t, src)

		var buf bytes.Buffer
		n, err := service.ExportReadings(ctx, src, "alice", format, &buf)
		if err != nil {
			t.Fatalf("%s export: %v", format, err)
		}
		if n != 2 {
			t.Fatalf("%s: expected 2 exported rows, got %d", format, n)
		}
		if format == service.FormatCSV && !strings.HasPrefix(buf.String(), "date,time,systolic,diastolic,pulse,weight_kg,notes\n") {
			t.Fatalf("unexpected csv header: %q", buf.String())
		}

		dst := store.NewSQLite(newTestDB(t))
		report, err := service.ImportReadings(ctx, dst, "bob", format, bytes.NewReader(buf.Bytes()), service.ImportOptions{})
		if err != nil {
			t.Fatalf("%s import: %v", format, err)
		}
		if report.Inserted != 2 || report.Skipped != 0 || report.Invalid != 0 {
			t.Fatalf("%s: unexpected import report %+v", format, report)
		}
		items, err := dst.List(ctx, "bob", store.Filter{Ascending: true})
		if err != nil {
			t.Fatalf("list imported: %v", err)
		}
		if len(items) != 2 || items[0].Notes != "morning, seated" || items[1].WeightKg == nil || *items[1].WeightKg != 82.5 {
			t.Fatalf("%s: unexpected imported readings %+v", format, items)
		}

		again, err := service.ImportReadings(ctx, dst, "bob", format, bytes.NewReader(buf.Bytes()), service.ImportOptions{Mode: service.ImportModeSkip})
		if err != nil {
			t.Fatalf("%s reimport: %v", format, err)
		}
		if again.Inserted != 0 || again.Skipped != 2 {
			t.Fatalf("%s: expected duplicates skipped, got %+v", format, again)
		}
		if _, err := service.ImportReadings(ctx, dst, "bob", format, bytes.NewReader(buf.Bytes()), service.ImportOptions{Mode: service.ImportModeFail}); err == nil {
			t.Fatalf("%s: expected fail mode to reject duplicates", format)
		}
	}
}

func TestImportCSVInvalidRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	csv := strings.Join([]string{
		"date,time,systolic,diastolic,pulse,weight_kg,notes",
		"2026-01-05,08:00,125,82,,,no pulse",
		"2026-01-06,08:00,80,90,70,,inverted",
		"2026-01-07,8am,120,80,70,,bad time",
		"2026-01-08,08:00,abc,80,70,,bad number",
		"2026-01-09,08:00,119,79,61,70.2,",
	}, "\n")

	st := store.NewMemory()
	dry, err := service.ImportReadings(ctx, st, "alice", "csv", strings.NewReader(csv), service.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if dry.Inserted != 2 || dry.Invalid != 3 || len(dry.Warnings) != 3 {
		t.Fatalf("unexpected dry-run report %+v", dry)
	}
	if items, _ := st.List(ctx, "alice", store.Filter{}); len(items) != 0 {
		t.Fatalf("expected dry run to write nothing, got %d", len(items))
	}

	report, err := service.ImportReadings(ctx, st, "alice", "csv", strings.NewReader(csv), service.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %+v", report)
	}
	if _, err := service.ImportReadings(ctx, store.NewMemory(), "alice", "csv", strings.NewReader(csv), service.ImportOptions{Mode: service.ImportModeFail}); !service.IsValidationError(err) {
		t.Fatalf("expected fail mode validation error, got %v", err)
	}
}

func TestImportRejectsBadInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	if _, err := service.ImportReadings(ctx, st, "alice", "xml", strings.NewReader(""), service.ImportOptions{}); err == nil {
		t.Fatalf("expected unsupported format to fail")
	}
	if _, err := service.ImportReadings(ctx, st, "alice", "csv", strings.NewReader("a,b\n1,2\n"), service.ImportOptions{}); err == nil {
		t.Fatalf("expected missing header to fail")
	}
	if _, err := service.ImportReadings(ctx, st, "alice", "json", strings.NewReader("{"), service.ImportOptions{}); err == nil {
		t.Fatalf("expected malformed json to fail")
	}
	if _, err := service.ImportReadings(ctx, st, "alice", "json", strings.NewReader("[]"), service.ImportOptions{Mode: "merge"}); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
