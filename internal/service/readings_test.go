package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

func TestAddReadingValidatesRanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local)

	cases := []struct {
		name string
		in   service.ReadingInput
	}{
		{"systolic low", service.ReadingInput{Systolic: 59, Diastolic: 50, Pulse: intPtr(70), MeasuredAt: at}},
		{"systolic high", service.ReadingInput{Systolic: 251, Diastolic: 90, Pulse: intPtr(70), MeasuredAt: at}},
		{"diastolic low", service.ReadingInput{Systolic: 120, Diastolic: 39, Pulse: intPtr(70), MeasuredAt: at}},
		{"diastolic high", service.ReadingInput{Systolic: 200, Diastolic: 151, Pulse: intPtr(70), MeasuredAt: at}},
		{"systolic not above diastolic", service.ReadingInput{Systolic: 90, Diastolic: 90, Pulse: intPtr(70), MeasuredAt: at}},
		{"pulse missing", service.ReadingInput{Systolic: 120, Diastolic: 80, MeasuredAt: at}},
		{"pulse out of range", service.ReadingInput{Systolic: 120, Diastolic: 80, Pulse: intPtr(201), MeasuredAt: at}},
		{"weight out of range", service.ReadingInput{Systolic: 120, Diastolic: 80, Pulse: intPtr(70), Weight: floatPtr(500), WeightUnit: "lb", MeasuredAt: at}},
	}
	for _, tc := range cases {
		if _, err := service.AddReading(ctx, st, "alice", tc.in); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		} else if !service.IsValidationError(err) {
			t.Fatalf("%s: expected ValidationError, got %T %v", tc.name, err, err)
		}
	}
	if _, err := service.AddReading(ctx, st, " ", service.ReadingInput{Systolic: 120, Diastolic: 80, Pulse: intPtr(70)}); err == nil {
		t.Fatalf("expected missing user to fail")
	}
}

func TestReadingLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewSQLite(newTestDB(t))

	created, err := service.AddReading(ctx, st, "alice", service.ReadingInput{
		Systolic:   132,
		Diastolic:  84,
		Pulse:      intPtr(72),
		Weight:     floatPtr(176),
		WeightUnit: "lb",
		MeasuredAt: time.Date(2026, 3, 2, 7, 45, 0, 0, time.Local),
		Notes:      "after coffee",
	})
	if err != nil {
		t.Fatalf("add reading: %v", err)
	}
	if created.WeightKg == nil || *created.WeightKg < 79.8 || *created.WeightKg > 79.9 {
		t.Fatalf("expected weight converted to ~79.83 kg, got %v", created.WeightKg)
	}

	items, err := service.ListReadings(ctx, st, "alice", service.ListFilter{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("list readings: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("expected created reading in day listing, got %+v", items)
	}

	updated, err := service.UpdateReading(ctx, st, "alice", created.ID, service.ReadingUpdate{
		Systolic:    intPtr(128),
		ClearWeight: true,
		Notes:       strPtr("retake"),
	})
	if err != nil {
		t.Fatalf("update reading: %v", err)
	}
	if updated.Systolic != 128 || updated.WeightKg != nil || updated.Notes != "retake" {
		t.Fatalf("unexpected updated reading %+v", updated)
	}

	if _, err := service.UpdateReading(ctx, st, "alice", created.ID, service.ReadingUpdate{Diastolic: intPtr(130)}); err == nil {
		t.Fatalf("expected update making diastolic >= systolic to fail")
	}
	if _, err := service.UpdateReading(ctx, st, "alice", created.ID, service.ReadingUpdate{}); err == nil {
		t.Fatalf("expected empty update to fail")
	}

	if _, err := service.GetReading(ctx, st, "bob", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected other user to get not found, got %v", err)
	}
	if err := service.DeleteReading(ctx, st, "alice", created.ID); err != nil {
		t.Fatalf("delete reading: %v", err)
	}
	if _, err := service.GetReading(ctx, st, "alice", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected deleted reading to be gone, got %v", err)
	}
}

func TestListReadingsDateFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	for day := 1; day <= 5; day++ {
		if _, err := service.AddReading(ctx, st, "alice", service.ReadingInput{
			Systolic:   120 + day,
			Diastolic:  80,
			Pulse:      intPtr(70),
			MeasuredAt: time.Date(2026, 3, day, 9, 0, 0, 0, time.Local),
		}); err != nil {
			t.Fatalf("add reading: %v", err)
		}
	}

	items, err := service.ListReadings(ctx, st, "alice", service.ListFilter{FromDate: "2026-03-02", ToDate: "2026-03-04"})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(items) != 3 || items[0].Systolic != 124 || items[2].Systolic != 122 {
		t.Fatalf("expected 3 readings newest first, got %+v", items)
	}

	limited, err := service.ListReadings(ctx, st, "alice", service.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].Systolic != 125 {
		t.Fatalf("expected 2 newest readings, got %+v", limited)
	}

	if _, err := service.ListReadings(ctx, st, "alice", service.ListFilter{Date: "2026-03-01", FromDate: "2026-03-01"}); err == nil {
		t.Fatalf("expected --date with --from to fail")
	}
	if _, err := service.ListReadings(ctx, st, "alice", service.ListFilter{FromDate: "2026-03-05", ToDate: "2026-03-01"}); err == nil {
		t.Fatalf("expected inverted range to fail")
	}
	if _, err := service.ListReadings(ctx, st, "alice", service.ListFilter{Date: "03/01/2026"}); err == nil {
		t.Fatalf("expected malformed date to fail")
	}
}

func TestAddReadingNullStoreUnavailable(t *testing.T) {
	t.Parallel()
	_, err := service.AddReading(context.Background(), store.Null{}, "alice", service.ReadingInput{
		Systolic: 120, Diastolic: 80, Pulse: intPtr(70),
	})
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
