package service

import (
	"context"
	"database/sql"

	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/model"
)

const dashboardWindowDays = 30

type TargetComparison struct {
	TargetSystolic  int  `json:"target_systolic"`
	TargetDiastolic int  `json:"target_diastolic"`
	SystolicDelta   int  `json:"systolic_delta"`
	DiastolicDelta  int  `json:"diastolic_delta"`
	WithinTarget    bool `json:"within_target"`
}

type DashboardView struct {
	Stats        StatsSummary      `json:"stats"`
	LatestStatus *bp.Status        `json:"latest_status"`
	Target       *TargetComparison `json:"target,omitempty"`
	Settings     model.UserSettings `json:"settings"`
	Tips         []model.HealthTip `json:"tips"`
}

// Dashboard combines the 30-day summary with the user's targets and tips
// for the latest reading's status.
func Dashboard(ctx context.Context, agg *Aggregator, db *sql.DB, userID string) (DashboardView, error) {
	settings, err := GetSettings(db, userID)
	if err != nil {
		return DashboardView{}, err
	}
	view := DashboardView{
		Stats:    agg.ComputeStats(ctx, userID, dashboardWindowDays),
		Settings: settings,
	}

	filter := TipFilter{Limit: 3}
	if latest := view.Stats.Latest; latest != nil {
		status := bp.Classify(latest.Systolic, latest.Diastolic)
		view.LatestStatus = &status
		filter.Status = string(status.Category)
		view.Target = &TargetComparison{
			TargetSystolic:  settings.TargetSystolic,
			TargetDiastolic: settings.TargetDiastolic,
			SystolicDelta:   latest.Systolic - settings.TargetSystolic,
			DiastolicDelta:  latest.Diastolic - settings.TargetDiastolic,
			WithinTarget:    latest.Systolic <= settings.TargetSystolic && latest.Diastolic <= settings.TargetDiastolic,
		}
	}
	tips, err := ListTips(db, filter)
	if err != nil {
		return DashboardView{}, err
	}
	view.Tips = tips
	return view, nil
}
