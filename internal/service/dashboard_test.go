package service_test

import (
	"context"
	"testing"

	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/service"
	"github.com/zzanghsi8873/bplog/internal/store"
)

func TestDashboardWithoutReadings(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	view, err := service.Dashboard(context.Background(), newAggregator(store.NewSQLite(db)), db, "alice")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if view.Stats.Count != 0 || view.LatestStatus != nil || view.Target != nil {
		t.Fatalf("expected empty dashboard, got %+v", view)
	}
	if len(view.Tips) != 3 {
		t.Fatalf("expected 3 general tips, got %d", len(view.Tips))
	}
}

func TestDashboardComparesLatestToTarget(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	st := store.NewMemory()
	seed(t, st, "alice", 2, 118, 76, intPtr(60))
	seed(t, st, "alice", 1, 142, 91, intPtr(75))

	view, err := service.Dashboard(context.Background(), newAggregator(st), db, "alice")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if view.LatestStatus == nil || view.LatestStatus.Category != bp.VeryHigh {
		t.Fatalf("expected very_high latest status, got %+v", view.LatestStatus)
	}
	if view.Target == nil || view.Target.SystolicDelta != 22 || view.Target.DiastolicDelta != 11 || view.Target.WithinTarget {
		t.Fatalf("unexpected target comparison %+v", view.Target)
	}
	if len(view.Tips) == 0 {
		t.Fatalf("expected tips for very_high status")
	}
	for _, tip := range view.Tips {
		if tip.BPStatus != "very_high" && tip.BPStatus != "" {
			t.Fatalf("unexpected tip status %q", tip.BPStatus)
		}
	}
}
