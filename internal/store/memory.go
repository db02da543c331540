package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zzanghsi8873/bplog/internal/model"
)

// Memory keeps readings in a map for the life of the process. Readings
// sharing a measured_at are ordered by insertion.
type Memory struct {
	mu       sync.RWMutex
	readings map[string]memRecord
	seq      uint64
	now      func() time.Time
}

type memRecord struct {
	reading model.Reading
	seq     uint64
}

func NewMemory() *Memory {
	return &Memory{readings: map[string]memRecord{}, now: time.Now}
}

func (m *Memory) List(ctx context.Context, userID string, f Filter) ([]model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	recs := make([]memRecord, 0)
	for _, rec := range m.readings {
		if rec.reading.UserID == userID && inWindow(rec.reading.MeasuredAt, f) {
			recs = append(recs, rec)
		}
	}
	m.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.reading.MeasuredAt.Equal(b.reading.MeasuredAt) {
			if f.Ascending {
				return a.reading.MeasuredAt.Before(b.reading.MeasuredAt)
			}
			return a.reading.MeasuredAt.After(b.reading.MeasuredAt)
		}
		if f.Ascending {
			return a.seq < b.seq
		}
		return a.seq > b.seq
	})
	if f.Limit > 0 && len(recs) > f.Limit {
		recs = recs[:f.Limit]
	}
	items := make([]model.Reading, 0, len(recs))
	for _, rec := range recs {
		items = append(items, copyReading(rec.reading))
	}
	return items, nil
}

func (m *Memory) Get(ctx context.Context, userID, id string) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.readings[id]
	if !ok || rec.reading.UserID != userID {
		return model.Reading{}, fmt.Errorf("reading %s: %w", id, ErrNotFound)
	}
	return copyReading(rec.reading), nil
}

func (m *Memory) Create(ctx context.Context, r model.Reading) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	if strings.TrimSpace(r.UserID) == "" {
		return model.Reading{}, fmt.Errorf("reading user id is required")
	}
	now := m.now().UTC().Truncate(time.Second)
	r.ID = uuid.NewString()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.MeasuredAt = r.MeasuredAt.UTC().Truncate(time.Second)
	r.Notes = strings.TrimSpace(r.Notes)
	r = copyReading(r)

	m.mu.Lock()
	m.seq++
	m.readings[r.ID] = memRecord{reading: r, seq: m.seq}
	m.mu.Unlock()
	return copyReading(r), nil
}

func (m *Memory) Update(ctx context.Context, userID, id string, patch model.ReadingPatch) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.readings[id]
	if !ok || rec.reading.UserID != userID {
		return model.Reading{}, fmt.Errorf("reading %s: %w", id, ErrNotFound)
	}
	next := copyReading(patch.Apply(rec.reading))
	next.MeasuredAt = next.MeasuredAt.UTC().Truncate(time.Second)
	next.Notes = strings.TrimSpace(next.Notes)
	next.UpdatedAt = m.now().UTC().Truncate(time.Second)
	m.readings[id] = memRecord{reading: next, seq: rec.seq}
	return copyReading(next), nil
}

func (m *Memory) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.readings[id]
	if !ok || rec.reading.UserID != userID {
		return fmt.Errorf("reading %s: %w", id, ErrNotFound)
	}
	delete(m.readings, id)
	return nil
}

// copyReading detaches the optional pointer fields so callers cannot mutate
// stored state.
func copyReading(r model.Reading) model.Reading {
	if r.Pulse != nil {
		v := *r.Pulse
		r.Pulse = &v
	}
	if r.WeightKg != nil {
		v := *r.WeightKg
		r.WeightKg = &v
	}
	return r
}
