package model

import "time"

type Reading struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	Pulse      *int      `json:"pulse"`
	WeightKg   *float64  `json:"weight_kg"`
	Notes      string    `json:"notes,omitempty"`
	MeasuredAt time.Time `json:"measured_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReadingPatch carries the fields of a partial update; nil fields are left
// unchanged. ClearPulse and ClearWeight null the column out.
type ReadingPatch struct {
	Systolic    *int
	Diastolic   *int
	Pulse       *int
	ClearPulse  bool
	WeightKg    *float64
	ClearWeight bool
	Notes       *string
	MeasuredAt  *time.Time
}

// Apply returns a copy of r with the patch applied.
func (p ReadingPatch) Apply(r Reading) Reading {
	if p.Systolic != nil {
		r.Systolic = *p.Systolic
	}
	if p.Diastolic != nil {
		r.Diastolic = *p.Diastolic
	}
	if p.ClearPulse {
		r.Pulse = nil
	} else if p.Pulse != nil {
		v := *p.Pulse
		r.Pulse = &v
	}
	if p.ClearWeight {
		r.WeightKg = nil
	} else if p.WeightKg != nil {
		v := *p.WeightKg
		r.WeightKg = &v
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.MeasuredAt != nil {
		r.MeasuredAt = *p.MeasuredAt
	}
	return r
}

type UserSettings struct {
	UserID               string    `json:"user_id"`
	Theme                string    `json:"theme"`
	UnitsWeight          string    `json:"units_weight"`
	UnitsPressure        string    `json:"units_pressure"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	ReminderTime         string    `json:"reminder_time"`
	TargetSystolic       int       `json:"target_systolic"`
	TargetDiastolic      int       `json:"target_diastolic"`
	UpdatedAt            time.Time `json:"updated_at,omitempty"`
}

type HealthTip struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	BPStatus  string    `json:"bp_status,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
