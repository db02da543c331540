// Package store provides the persistence collaborators for readings.
//
// Three backends share the Readings interface: sqlite (the journal database),
// memory (process-local, nothing survives exit) and none (a null store that
// has no data and refuses writes). The backend is chosen by configuration.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zzanghsi8873/bplog/internal/model"
)

var (
	ErrNotFound    = errors.New("reading not found")
	ErrUnavailable = errors.New("reading store unavailable")
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Filter scopes a List call. Zero From/To are unbounded; both bounds are
// inclusive. Results are newest first unless Ascending is set.
type Filter struct {
	From      time.Time
	To        time.Time
	Ascending bool
	Limit     int
}

type Readings interface {
	List(ctx context.Context, userID string, f Filter) ([]model.Reading, error)
	Get(ctx context.Context, userID, id string) (model.Reading, error)
	Create(ctx context.Context, r model.Reading) (model.Reading, error)
	Update(ctx context.Context, userID, id string, patch model.ReadingPatch) (model.Reading, error)
	Delete(ctx context.Context, userID, id string) error
}

func Backends() []string {
	return []string{BackendSQLite, BackendMemory, BackendNone}
}

// Open returns the store for backend. sqldb is only required by the sqlite
// backend.
func Open(backend string, sqldb *sql.DB) (Readings, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		if sqldb == nil {
			return nil, fmt.Errorf("sqlite store requires an open database")
		}
		return NewSQLite(sqldb), nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendNone:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("invalid store backend %q (use %s)", backend, strings.Join(Backends(), "|"))
	}
}

// storedTime is the on-disk timestamp form: UTC, second precision, so that
// text comparison in SQL matches chronological order.
func storedTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func inWindow(t time.Time, f Filter) bool {
	t = t.Truncate(time.Second)
	if !f.From.IsZero() && t.Before(f.From.Truncate(time.Second)) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To.Truncate(time.Second)) {
		return false
	}
	return true
}
