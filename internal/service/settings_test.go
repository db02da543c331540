package service_test

import (
	"testing"

	"github.com/zzanghsi8873/bplog/internal/service"
)

func TestGetSettingsDefaults(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	s, err := service.GetSettings(db, "alice")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	want := service.DefaultSettings("alice")
	if s != want {
		t.Fatalf("expected defaults %+v, got %+v", want, s)
	}
	if s.Theme != "dark" || s.TargetSystolic != 120 || s.TargetDiastolic != 80 || s.ReminderTime != "09:00" {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if _, err := service.GetSettings(db, ""); err == nil {
		t.Fatalf("expected empty user to fail")
	}
}

func TestUpdateSettingsPersistsPatch(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	off := false
	s, err := service.UpdateSettings(db, "alice", service.SettingsPatch{
		Theme:                strPtr("Light"),
		UnitsWeight:          strPtr("lbs"),
		UnitsPressure:        strPtr("kpa"),
		NotificationsEnabled: &off,
		ReminderTime:         strPtr("7:30"),
		TargetSystolic:       intPtr(130),
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if s.Theme != "light" || s.UnitsWeight != "lb" || s.UnitsPressure != "kPa" || s.NotificationsEnabled || s.ReminderTime != "07:30" || s.TargetSystolic != 130 || s.TargetDiastolic != 80 {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}

	again, err := service.GetSettings(db, "alice")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if again.Theme != "light" || again.TargetSystolic != 130 {
		t.Fatalf("expected persisted settings, got %+v", again)
	}
	other, err := service.GetSettings(db, "bob")
	if err != nil {
		t.Fatalf("get bob settings: %v", err)
	}
	if other.Theme != "dark" {
		t.Fatalf("expected bob to keep defaults, got %+v", other)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	cases := []struct {
		name  string
		patch service.SettingsPatch
	}{
		{"empty", service.SettingsPatch{}},
		{"theme", service.SettingsPatch{Theme: strPtr("neon")}},
		{"weight unit", service.SettingsPatch{UnitsWeight: strPtr("stone")}},
		{"pressure unit", service.SettingsPatch{UnitsPressure: strPtr("psi")}},
		{"reminder", service.SettingsPatch{ReminderTime: strPtr("25:00")}},
		{"target range", service.SettingsPatch{TargetSystolic: intPtr(300)}},
		{"target order", service.SettingsPatch{TargetSystolic: intPtr(90), TargetDiastolic: intPtr(95)}},
	}
	for _, tc := range cases {
		if _, err := service.UpdateSettings(db, "alice", tc.patch); !service.IsValidationError(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
