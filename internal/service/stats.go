package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/zzanghsi8873/bplog/internal/bp"
	"github.com/zzanghsi8873/bplog/internal/metrics"
	"github.com/zzanghsi8873/bplog/internal/model"
	"github.com/zzanghsi8873/bplog/internal/store"
)

const (
	DefaultWindowDays = 30
	TrendSize         = 7
)

// StandardWindows are the periods offered by the stats view.
var StandardWindows = []int{7, 30, 90, 365}

type Averages struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
	Pulse     int `json:"pulse"`
}

// StatsSummary is recomputed from the store on every request.
type StatsSummary struct {
	Count   int             `json:"count"`
	Average Averages        `json:"average"`
	Latest  *model.Reading  `json:"latest"`
	Trend   []model.Reading `json:"trend"`
}

type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// StatsReport extends the summary with window bounds and derived views.
type StatsReport struct {
	WindowDays     int          `json:"window_days"`
	From           time.Time    `json:"from"`
	To             time.Time    `json:"to"`
	Summary        StatsSummary `json:"summary"`
	AverageStatus  *bp.Status   `json:"average_status"`
	LatestStatus   *bp.Status   `json:"latest_status"`
	Breakdown      bp.Histogram `json:"breakdown"`
	TrendBreakdown bp.Histogram `json:"trend_breakdown"`
	Systolic       *Range       `json:"systolic_range,omitempty"`
	Diastolic      *Range       `json:"diastolic_range,omitempty"`
	AverageWeight  *float64     `json:"average_weight_kg,omitempty"`
}

type Aggregator struct {
	Store   store.Readings
	Backend string
	Now     func() time.Time
	Logger  zerolog.Logger
}

func NewAggregator(st store.Readings, backend string, logger zerolog.Logger) *Aggregator {
	return &Aggregator{Store: st, Backend: backend, Now: time.Now, Logger: logger}
}

func EmptyStats() StatsSummary {
	return StatsSummary{Trend: []model.Reading{}}
}

// ComputeStats summarizes the user's readings over the trailing window. A
// store failure is logged and served as the empty summary.
func (a *Aggregator) ComputeStats(ctx context.Context, userID string, windowDays int) StatsSummary {
	readings, _, _, ok := a.window(ctx, userID, windowDays)
	if !ok {
		return EmptyStats()
	}
	return summarize(readings)
}

func (a *Aggregator) Report(ctx context.Context, userID string, windowDays int) StatsReport {
	readings, from, to, ok := a.window(ctx, userID, windowDays)
	report := StatsReport{
		WindowDays: normalizeWindow(windowDays),
		From:       from,
		To:         to,
		Summary:    EmptyStats(),
	}
	if !ok || len(readings) == 0 {
		return report
	}
	report.Summary = summarize(readings)
	report.Breakdown = CategoryBreakdown(readings)
	report.TrendBreakdown = CategoryBreakdown(report.Summary.Trend)

	avg := bp.Classify(report.Summary.Average.Systolic, report.Summary.Average.Diastolic)
	report.AverageStatus = &avg
	latest := bp.Classify(report.Summary.Latest.Systolic, report.Summary.Latest.Diastolic)
	report.LatestStatus = &latest

	sys := Range{Min: readings[0].Systolic, Max: readings[0].Systolic}
	dia := Range{Min: readings[0].Diastolic, Max: readings[0].Diastolic}
	weightSum, weightCount := 0.0, 0
	for _, r := range readings {
		sys.Min, sys.Max = min(sys.Min, r.Systolic), max(sys.Max, r.Systolic)
		dia.Min, dia.Max = min(dia.Min, r.Diastolic), max(dia.Max, r.Diastolic)
		if r.WeightKg != nil {
			weightSum += *r.WeightKg
			weightCount++
		}
	}
	report.Systolic = &sys
	report.Diastolic = &dia
	if weightCount > 0 {
		w := weightSum / float64(weightCount)
		report.AverageWeight = &w
	}
	return report
}

// CategoryBreakdown classifies each reading; the counts sum to len(readings).
func CategoryBreakdown(readings []model.Reading) bp.Histogram {
	var h bp.Histogram
	for _, r := range readings {
		h.Add(bp.Classify(r.Systolic, r.Diastolic).Category)
	}
	return h
}

func (a *Aggregator) window(ctx context.Context, userID string, windowDays int) ([]model.Reading, time.Time, time.Time, bool) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	days := normalizeWindow(windowDays)
	end := now()
	start := end.AddDate(0, 0, -days)

	if a.Store == nil {
		a.degraded(userID, days, errNoStore)
		return nil, start, end, false
	}
	readings, err := a.Store.List(ctx, cleanUserID(userID), store.Filter{From: start, To: end, Ascending: true})
	if err != nil {
		a.degraded(userID, days, err)
		return nil, start, end, false
	}
	return readings, start, end, true
}

func (a *Aggregator) degraded(userID string, days int, err error) {
	a.Logger.Warn().
		Err(err).
		Str("user_id", userID).
		Int("window_days", days).
		Str("backend", a.Backend).
		Msg("reading store failed; serving empty stats")
	metrics.Inc(metrics.StatsDegraded, prometheus.Labels{"backend": a.Backend}, 1)
}

func summarize(readings []model.Reading) StatsSummary {
	if len(readings) == 0 {
		return EmptyStats()
	}
	out := StatsSummary{Count: len(readings)}

	sysSum, diaSum := 0, 0
	pulseSum, pulseCount := 0, 0
	for _, r := range readings {
		sysSum += r.Systolic
		diaSum += r.Diastolic
		if r.Pulse != nil {
			pulseSum += *r.Pulse
			pulseCount++
		}
	}
	n := float64(len(readings))
	out.Average.Systolic = roundHalfUp(float64(sysSum) / n)
	out.Average.Diastolic = roundHalfUp(float64(diaSum) / n)
	if pulseCount > 0 {
		out.Average.Pulse = roundHalfUp(float64(pulseSum) / float64(pulseCount))
	}

	latest := readings[len(readings)-1]
	out.Latest = &latest

	start := len(readings) - TrendSize
	if start < 0 {
		start = 0
	}
	out.Trend = make([]model.Reading, len(readings)-start)
	copy(out.Trend, readings[start:])
	return out
}

func normalizeWindow(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	return days
}
