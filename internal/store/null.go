package store

import (
	"context"
	"fmt"

	"github.com/zzanghsi8873/bplog/internal/model"
)

// Null is the store used when no backend is configured. It holds no data:
// reads come back empty and writes fail with ErrUnavailable.
type Null struct{}

func (Null) List(ctx context.Context, userID string, f Filter) ([]model.Reading, error) {
	return []model.Reading{}, nil
}

func (Null) Get(ctx context.Context, userID, id string) (model.Reading, error) {
	return model.Reading{}, fmt.Errorf("reading %s: %w", id, ErrNotFound)
}

func (Null) Create(ctx context.Context, r model.Reading) (model.Reading, error) {
	return model.Reading{}, fmt.Errorf("create reading: %w", ErrUnavailable)
}

func (Null) Update(ctx context.Context, userID, id string, patch model.ReadingPatch) (model.Reading, error) {
	return model.Reading{}, fmt.Errorf("update reading %s: %w", id, ErrUnavailable)
}

func (Null) Delete(ctx context.Context, userID, id string) error {
	return fmt.Errorf("delete reading %s: %w", id, ErrUnavailable)
}
