package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DoctorReport counts problem rows in the readings table. Duplicates share
// user, measured_at and both pressures.
type DoctorReport struct {
	InvalidPressure   int `json:"invalid_pressure"`
	InvalidTimestamps int `json:"invalid_timestamps"`
	DuplicateRows     int `json:"duplicate_rows"`
	FixedDuplicates   int `json:"fixed_duplicates,omitempty"`
}

func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := db.QueryRow(`SELECT COUNT(1) FROM readings WHERE systolic <= diastolic`).Scan(&report.InvalidPressure); err != nil {
		return report, fmt.Errorf("doctor pressure check: %w", err)
	}

	rows, err := db.Query(`SELECT measured_at FROM readings`)
	if err != nil {
		return report, fmt.Errorf("doctor timestamp query: %w", err)
	}
	for rows.Next() {
		var measured string
		if err := rows.Scan(&measured); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor timestamp scan: %w", err)
		}
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(measured)); err != nil {
			report.InvalidTimestamps++
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor timestamp iterate: %w", err)
	}
	_ = rows.Close()

	if err := db.QueryRow(`
SELECT COALESCE(SUM(cnt-1),0) FROM (
  SELECT COUNT(*) AS cnt
  FROM readings
  GROUP BY user_id, measured_at, systolic, diastolic
  HAVING cnt > 1
)
`).Scan(&report.DuplicateRows); err != nil {
		return report, fmt.Errorf("doctor duplicate query: %w", err)
	}

	if fix && report.DuplicateRows > 0 {
		tx, err := db.Begin()
		if err != nil {
			return report, fmt.Errorf("doctor fix begin tx: %w", err)
		}
		res, err := tx.Exec(`
DELETE FROM readings WHERE id IN (
  SELECT id FROM (
    SELECT id, ROW_NUMBER() OVER (
      PARTITION BY user_id, measured_at, systolic, diastolic
      ORDER BY created_at ASC, id ASC
    ) AS rn
    FROM readings
  ) WHERE rn > 1
)
`)
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix duplicates: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix rows affected: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("doctor fix commit: %w", err)
		}
		report.FixedDuplicates = int(n)
	}

	return report, nil
}
