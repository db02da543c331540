package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

func TestMonthCalendarGroupsByDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	add := func(day, hour, sys, dia int) {
		t.Helper()
		if _, err := service.AddReading(ctx, st, "alice", service.ReadingInput{
			Systolic: sys, Diastolic: dia, Pulse: intPtr(65),
			MeasuredAt: time.Date(2026, 4, day, hour, 0, 0, 0, time.Local),
		}); err != nil {
			t.Fatalf("add reading: %v", err)
		}
	}
	add(3, 8, 118, 76)
	add(3, 20, 145, 92)
	add(10, 9, 125, 79)
	add(30, 23, 115, 70)
	add(1, 0, 119, 79)
	if _, err := service.AddReading(ctx, st, "alice", service.ReadingInput{
		Systolic: 150, Diastolic: 95, Pulse: intPtr(65),
		MeasuredAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local),
	}); err != nil {
		t.Fatalf("add next month reading: %v", err)
	}

	cal, err := service.MonthCalendar(ctx, st, "alice", 2026, time.April)
	if err != nil {
		t.Fatalf("month calendar: %v", err)
	}
	if cal.Month != "2026-04" || cal.Total != 5 {
		t.Fatalf("expected 5 readings in 2026-04, got %s %d", cal.Month, cal.Total)
	}
	if len(cal.Days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(cal.Days))
	}
	if cal.Days[0].Date != "2026-04-01" || cal.Days[3].Date != "2026-04-30" {
		t.Fatalf("unexpected day order %s..%s", cal.Days[0].Date, cal.Days[3].Date)
	}
	third := cal.Days[1]
	if third.Date != "2026-04-03" || len(third.Events) != 2 {
		t.Fatalf("expected two events on 2026-04-03, got %+v", third)
	}
	if third.Worst.Category != bp.VeryHigh {
		t.Fatalf("expected worst very_high, got %s", third.Worst.Category)
	}
	if third.Events[0].Title != "118/76" {
		t.Fatalf("expected first event title 118/76, got %q", third.Events[0].Title)
	}
}

func TestMonthCalendarEmptyAndInvalid(t *testing.T) {
	t.Parallel()
	cal, err := service.MonthCalendar(context.Background(), store.Null{}, "alice", 2026, time.February)
	if err != nil {
		t.Fatalf("month calendar: %v", err)
	}
	if cal.Total != 0 || cal.Days == nil {
		t.Fatalf("expected empty non-nil days, got %+v", cal)
	}
	if _, err := service.MonthCalendar(context.Background(), store.Null{}, "alice", 2026, 13); err == nil {
		t.Fatalf("expected month 13 to fail")
	}
}

func TestParseMonth(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.Local)
	y, m, err := service.ParseMonth("", now)
	if err != nil || y != 2026 || m != time.July {
		t.Fatalf("expected current month, got %d-%d %v", y, m, err)
	}
	y, m, err = service.ParseMonth("2025-12", now)
	if err != nil || y != 2025 || m != time.December {
		t.Fatalf("expected 2025-12, got %d-%d %v", y, m, err)
	}
	if _, _, err := service.ParseMonth("2025-13", now); !service.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
