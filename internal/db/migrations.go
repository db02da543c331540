package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS readings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  systolic INTEGER NOT NULL,
  diastolic INTEGER NOT NULL,
  pulse INTEGER,
  weight_kg REAL,
  notes TEXT,
  measured_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_readings_user_measured ON readings(user_id, measured_at);

CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "user_settings",
		sql: `
CREATE TABLE IF NOT EXISTS user_settings (
  user_id TEXT PRIMARY KEY,
  theme TEXT NOT NULL DEFAULT 'dark' CHECK(theme IN ('light', 'dark', 'system')),
  units_weight TEXT NOT NULL DEFAULT 'kg' CHECK(units_weight IN ('kg', 'lb')),
  units_pressure TEXT NOT NULL DEFAULT 'mmHg' CHECK(units_pressure IN ('mmHg', 'kPa')),
  notifications_enabled INTEGER NOT NULL DEFAULT 1,
  reminder_time TEXT NOT NULL DEFAULT '09:00',
  target_systolic INTEGER NOT NULL DEFAULT 120 CHECK(target_systolic > 0),
  target_diastolic INTEGER NOT NULL DEFAULT 80 CHECK(target_diastolic > 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "health_tips",
		sql: `
CREATE TABLE IF NOT EXISTS health_tips (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL UNIQUE,
  content TEXT NOT NULL,
  category TEXT NOT NULL CHECK(category IN ('diet', 'exercise', 'lifestyle', 'medication')),
  bp_status TEXT CHECK(bp_status IS NULL OR bp_status IN ('normal', 'elevated', 'high', 'very_high')),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

type seedTip struct {
	title    string
	content  string
	category string
	status   string
}

var defaultTips = []seedTip{
	{"Move every day", "Thirty minutes of brisk walking most days can lower systolic pressure by 5-10 mmHg.", "exercise", "high"},
	{"Cut back on salt", "Keep sodium under 1,500 mg a day; processed and restaurant food is where most of it hides.", "diet", "elevated"},
	{"Measure at the same time", "Take readings at the same time each day, seated, after five minutes of rest.", "lifestyle", ""},
	{"Keep taking your medication", "Do not stop blood-pressure medication on your own, even when readings look good.", "medication", "very_high"},
	{"Limit alcohol", "More than one or two drinks a day raises blood pressure over time.", "diet", "high"},
	{"Keep it up", "Your readings are in range. Regular activity and a balanced diet keep them there.", "lifestyle", "normal"},
	{"Seek care for very high readings", "Readings at or above 180/120 with symptoms need urgent medical attention.", "medication", "very_high"},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	for _, tip := range defaultTips {
		var status any
		if tip.status != "" {
			status = tip.status
		}
		if _, err := db.Exec(`INSERT OR IGNORE INTO health_tips(title, content, category, bp_status) VALUES(?, ?, ?, ?)`, tip.title, tip.content, tip.category, status); err != nil {
			return fmt.Errorf("seed health tip %q: %w", tip.title, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}
