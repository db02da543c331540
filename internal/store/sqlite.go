package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zzanghsi8873/bplog/internal/model"
)

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

const readingColumns = `id, user_id, systolic, diastolic, pulse, weight_kg, IFNULL(notes, ''), measured_at, created_at, updated_at`

func (s *SQLite) List(ctx context.Context, userID string, f Filter) ([]model.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE user_id = ?`
	args := []any{userID}
	if !f.From.IsZero() {
		query += ` AND measured_at >= ?`
		args = append(args, storedTime(f.From))
	}
	if !f.To.IsZero() {
		query += ` AND measured_at <= ?`
		args = append(args, storedTime(f.To))
	}
	if f.Ascending {
		query += ` ORDER BY measured_at ASC, created_at ASC, rowid ASC`
	} else {
		query += ` ORDER BY measured_at DESC, created_at DESC, rowid DESC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	items := make([]model.Reading, 0)
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return items, nil
}

func (s *SQLite) Get(ctx context.Context, userID, id string) (model.Reading, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+readingColumns+` FROM readings WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reading{}, fmt.Errorf("reading %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Reading{}, err
	}
	return r, nil
}

func (s *SQLite) Create(ctx context.Context, r model.Reading) (model.Reading, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return model.Reading{}, fmt.Errorf("reading user id is required")
	}
	now := s.now().UTC().Truncate(time.Second)
	r.ID = uuid.NewString()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.MeasuredAt = r.MeasuredAt.UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO readings(id, user_id, systolic, diastolic, pulse, weight_kg, notes, measured_at, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, r.ID, r.UserID, r.Systolic, r.Diastolic, r.Pulse, r.WeightKg, strings.TrimSpace(r.Notes),
		storedTime(r.MeasuredAt), storedTime(r.CreatedAt), storedTime(r.UpdatedAt))
	if err != nil {
		return model.Reading{}, fmt.Errorf("insert reading: %w", err)
	}
	return r, nil
}

func (s *SQLite) Update(ctx context.Context, userID, id string, patch model.ReadingPatch) (model.Reading, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return model.Reading{}, err
	}
	next := patch.Apply(current)
	next.UpdatedAt = s.now().UTC().Truncate(time.Second)
	next.MeasuredAt = next.MeasuredAt.UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx, `
UPDATE readings
SET systolic = ?, diastolic = ?, pulse = ?, weight_kg = ?, notes = ?, measured_at = ?, updated_at = ?
WHERE id = ? AND user_id = ?
`, next.Systolic, next.Diastolic, next.Pulse, next.WeightKg, strings.TrimSpace(next.Notes),
		storedTime(next.MeasuredAt), storedTime(next.UpdatedAt), id, userID)
	if err != nil {
		return model.Reading{}, fmt.Errorf("update reading %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Reading{}, fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return model.Reading{}, fmt.Errorf("reading %s: %w", id, ErrNotFound)
	}
	return next, nil
}

func (s *SQLite) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete reading %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("reading %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (model.Reading, error) {
	var r model.Reading
	var pulse sql.NullInt64
	var weight sql.NullFloat64
	var measuredRaw, createdRaw, updatedRaw string
	if err := row.Scan(&r.ID, &r.UserID, &r.Systolic, &r.Diastolic, &pulse, &weight, &r.Notes, &measuredRaw, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scan reading: %w", err)
	}
	if pulse.Valid {
		v := int(pulse.Int64)
		r.Pulse = &v
	}
	if weight.Valid {
		v := weight.Float64
		r.WeightKg = &v
	}
	var err error
	if r.MeasuredAt, err = time.Parse(time.RFC3339, measuredRaw); err != nil {
		return r, fmt.Errorf("parse measured_at for reading %s: %w", r.ID, err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdRaw); err != nil {
		return r, fmt.Errorf("parse created_at for reading %s: %w", r.ID, err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339, updatedRaw); err != nil {
		return r, fmt.Errorf("parse updated_at for reading %s: %w", r.ID, err)
	}
	return r, nil
}
