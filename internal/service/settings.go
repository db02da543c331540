package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zzanghsi8873/bplog/internal/model"
)

// SettingsPatch updates only the non-nil fields.
type SettingsPatch struct {
	Theme                *string
	UnitsWeight          *string
	UnitsPressure        *string
	NotificationsEnabled *bool
	ReminderTime         *string
	TargetSystolic       *int
	TargetDiastolic      *int
}

func DefaultSettings(userID string) model.UserSettings {
	return model.UserSettings{
		UserID:               userID,
		Theme:                "dark",
		UnitsWeight:          UnitKg,
		UnitsPressure:        UnitMmHg,
		NotificationsEnabled: true,
		ReminderTime:         "09:00",
		TargetSystolic:       120,
		TargetDiastolic:      80,
	}
}

// GetSettings returns the stored settings, or the defaults when the user has
// never saved any.
func GetSettings(db *sql.DB, userID string) (model.UserSettings, error) {
	userID = cleanUserID(userID)
	if userID == "" {
		return model.UserSettings{}, invalidf("user id is required")
	}
	var s model.UserSettings
	var notifications int
	var updated string
	err := db.QueryRow(`
SELECT user_id, theme, units_weight, units_pressure, notifications_enabled, reminder_time, target_systolic, target_diastolic, updated_at
FROM user_settings WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.Theme, &s.UnitsWeight, &s.UnitsPressure, &notifications, &s.ReminderTime, &s.TargetSystolic, &s.TargetDiastolic, &updated)
	if err == sql.ErrNoRows {
		return DefaultSettings(userID), nil
	}
	if err != nil {
		return model.UserSettings{}, fmt.Errorf("get settings for %s: %w", userID, err)
	}
	s.NotificationsEnabled = notifications != 0
	s.UpdatedAt = parseDBTime(updated)
	return s, nil
}

func UpdateSettings(db *sql.DB, userID string, patch SettingsPatch) (model.UserSettings, error) {
	current, err := GetSettings(db, userID)
	if err != nil {
		return model.UserSettings{}, err
	}
	next, err := applySettingsPatch(current, patch)
	if err != nil {
		return model.UserSettings{}, err
	}
	_, err = db.Exec(`
INSERT INTO user_settings(user_id, theme, units_weight, units_pressure, notifications_enabled, reminder_time, target_systolic, target_diastolic, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET
  theme=excluded.theme,
  units_weight=excluded.units_weight,
  units_pressure=excluded.units_pressure,
  notifications_enabled=excluded.notifications_enabled,
  reminder_time=excluded.reminder_time,
  target_systolic=excluded.target_systolic,
  target_diastolic=excluded.target_diastolic,
  updated_at=excluded.updated_at
`, next.UserID, next.Theme, next.UnitsWeight, next.UnitsPressure, boolToInt(next.NotificationsEnabled), next.ReminderTime, next.TargetSystolic, next.TargetDiastolic)
	if err != nil {
		return model.UserSettings{}, fmt.Errorf("save settings for %s: %w", next.UserID, err)
	}
	return GetSettings(db, next.UserID)
}

func applySettingsPatch(s model.UserSettings, p SettingsPatch) (model.UserSettings, error) {
	changed := false
	if p.Theme != nil {
		theme := normalizeName(*p.Theme)
		switch theme {
		case "light", "dark", "system":
		default:
			return s, invalidf("invalid theme %q (use light|dark|system)", *p.Theme)
		}
		s.Theme = theme
		changed = true
	}
	if p.UnitsWeight != nil {
		u, err := normalizeWeightUnit(*p.UnitsWeight)
		if err != nil {
			return s, err
		}
		s.UnitsWeight = u
		changed = true
	}
	if p.UnitsPressure != nil {
		u, err := normalizePressureUnit(*p.UnitsPressure)
		if err != nil {
			return s, err
		}
		s.UnitsPressure = u
		changed = true
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
		changed = true
	}
	if p.ReminderTime != nil {
		t, err := time.Parse("15:04", strings.TrimSpace(*p.ReminderTime))
		if err != nil {
			return s, invalidf("invalid reminder time %q (expected HH:MM)", *p.ReminderTime)
		}
		s.ReminderTime = t.Format("15:04")
		changed = true
	}
	if p.TargetSystolic != nil {
		if err := validateRangeInt("target systolic", *p.TargetSystolic, MinSystolic, MaxSystolic); err != nil {
			return s, err
		}
		s.TargetSystolic = *p.TargetSystolic
		changed = true
	}
	if p.TargetDiastolic != nil {
		if err := validateRangeInt("target diastolic", *p.TargetDiastolic, MinDiastolic, MaxDiastolic); err != nil {
			return s, err
		}
		s.TargetDiastolic = *p.TargetDiastolic
		changed = true
	}
	if !changed {
		return s, invalidf("set at least one setting")
	}
	if s.TargetSystolic <= s.TargetDiastolic {
		return s, invalidf("target systolic must be greater than target diastolic")
	}
	return s, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
