package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zzanghsi8873/bplog/internal/metrics"
	"github.com/zzanghsi8873/bplog/internal/model"
	"github.com/zzanghsi8873/bplog/internal/store"
)

const (
	MinSystolic  = 60
	MaxSystolic  = 250
	MinDiastolic = 40
	MaxDiastolic = 150
	MinPulse     = 30
	MaxPulse     = 200
	MinWeightKg  = 20.0
	MaxWeightKg  = 200.0
)

type ReadingInput struct {
	Systolic   int
	Diastolic  int
	Pulse      *int
	Weight     *float64
	WeightUnit string
	MeasuredAt time.Time
	Notes      string
}

// ReadingUpdate holds the fields to change; nil fields keep their value.
type ReadingUpdate struct {
	Systolic    *int
	Diastolic   *int
	Pulse       *int
	ClearPulse  bool
	Weight      *float64
	WeightUnit  string
	ClearWeight bool
	MeasuredAt  *time.Time
	Notes       *string
}

type ListFilter struct {
	Date     string
	FromDate string
	ToDate   string
	Limit    int
}

func AddReading(ctx context.Context, st store.Readings, userID string, in ReadingInput) (model.Reading, error) {
	r, err := buildReading(userID, in, true)
	if err != nil {
		return model.Reading{}, err
	}
	created, err := st.Create(ctx, r)
	if err != nil {
		return model.Reading{}, fmt.Errorf("add reading: %w", err)
	}
	metrics.Inc(metrics.ReadingsWritten, prometheus.Labels{"op": "create"}, 1)
	return created, nil
}

func GetReading(ctx context.Context, st store.Readings, userID, id string) (model.Reading, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Reading{}, invalidf("reading id is required")
	}
	return st.Get(ctx, cleanUserID(userID), id)
}

func ListReadings(ctx context.Context, st store.Readings, userID string, f ListFilter) ([]model.Reading, error) {
	if strings.TrimSpace(f.Date) != "" && (strings.TrimSpace(f.FromDate) != "" || strings.TrimSpace(f.ToDate) != "") {
		return nil, invalidf("--date cannot be combined with --from or --to")
	}
	filter := store.Filter{Limit: f.Limit}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if strings.TrimSpace(f.Date) != "" {
		start, end, err := dayBounds(f.Date)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		filter.From, filter.To = start, end
	}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDateStart(f.FromDate)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		filter.From = from
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDateEnd(f.ToDate)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		filter.To = to
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, invalidf("from date must be <= to date")
	}
	items, err := st.List(ctx, cleanUserID(userID), filter)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return items, nil
}

func UpdateReading(ctx context.Context, st store.Readings, userID, id string, in ReadingUpdate) (model.Reading, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Reading{}, invalidf("reading id is required")
	}
	patch, err := in.patch()
	if err != nil {
		return model.Reading{}, err
	}
	current, err := st.Get(ctx, cleanUserID(userID), id)
	if err != nil {
		return model.Reading{}, err
	}
	if err := ValidateReading(patch.Apply(current), false); err != nil {
		return model.Reading{}, err
	}
	updated, err := st.Update(ctx, cleanUserID(userID), id, patch)
	if err != nil {
		return model.Reading{}, err
	}
	metrics.Inc(metrics.ReadingsWritten, prometheus.Labels{"op": "update"}, 1)
	return updated, nil
}

func DeleteReading(ctx context.Context, st store.Readings, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalidf("reading id is required")
	}
	if err := st.Delete(ctx, cleanUserID(userID), id); err != nil {
		return err
	}
	metrics.Inc(metrics.ReadingsWritten, prometheus.Labels{"op": "delete"}, 1)
	return nil
}

// ValidateReading applies the entry-form rules. requirePulse is false for
// updates of legacy rows and for imports.
func ValidateReading(r model.Reading, requirePulse bool) error {
	if err := validateRangeInt("systolic", r.Systolic, MinSystolic, MaxSystolic); err != nil {
		return err
	}
	if err := validateRangeInt("diastolic", r.Diastolic, MinDiastolic, MaxDiastolic); err != nil {
		return err
	}
	if r.Systolic <= r.Diastolic {
		return invalidf("systolic must be greater than diastolic")
	}
	if r.Pulse == nil && requirePulse {
		return invalidf("pulse is required")
	}
	if r.Pulse != nil {
		if err := validateRangeInt("pulse", *r.Pulse, MinPulse, MaxPulse); err != nil {
			return err
		}
	}
	if r.WeightKg != nil && (*r.WeightKg < MinWeightKg || *r.WeightKg > MaxWeightKg) {
		return invalidf("weight must be between %.0f and %.0f kg", MinWeightKg, MaxWeightKg)
	}
	return nil
}

func buildReading(userID string, in ReadingInput, requirePulse bool) (model.Reading, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Reading{}, invalidf("user id is required")
	}
	r := model.Reading{
		UserID:     userID,
		Systolic:   in.Systolic,
		Diastolic:  in.Diastolic,
		Notes:      strings.TrimSpace(in.Notes),
		MeasuredAt: in.MeasuredAt,
	}
	if in.Pulse != nil {
		v := *in.Pulse
		r.Pulse = &v
	}
	if in.Weight != nil {
		kg, err := ToKg(*in.Weight, in.WeightUnit)
		if err != nil {
			return model.Reading{}, err
		}
		r.WeightKg = &kg
	}
	if r.MeasuredAt.IsZero() {
		r.MeasuredAt = time.Now()
	}
	if err := ValidateReading(r, requirePulse); err != nil {
		return model.Reading{}, err
	}
	return r, nil
}

func (in ReadingUpdate) patch() (model.ReadingPatch, error) {
	p := model.ReadingPatch{
		Systolic:    in.Systolic,
		Diastolic:   in.Diastolic,
		Pulse:       in.Pulse,
		ClearPulse:  in.ClearPulse,
		ClearWeight: in.ClearWeight,
		MeasuredAt:  in.MeasuredAt,
	}
	if in.Notes != nil {
		n := strings.TrimSpace(*in.Notes)
		p.Notes = &n
	}
	if in.Weight != nil && !in.ClearWeight {
		kg, err := ToKg(*in.Weight, in.WeightUnit)
		if err != nil {
			return p, err
		}
		p.WeightKg = &kg
	}
	if p.Systolic == nil && p.Diastolic == nil && p.Pulse == nil && !p.ClearPulse &&
		p.WeightKg == nil && !p.ClearWeight && p.Notes == nil && p.MeasuredAt == nil {
		return p, invalidf("set at least one field to update")
	}
	return p, nil
}

func cleanUserID(userID string) string {
	return strings.TrimSpace(userID)
}
