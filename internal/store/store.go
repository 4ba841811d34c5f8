package store

import (
	"context"
	"errors"

	"github.com/emrgen/modelhub/internal/model"
)

var (
	ErrModelNotFound = errors.New("model not found")
	ErrModelExists   = errors.New("model already exists in library")
)

type Store interface {
	ModelStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

// ModelStore keeps the three library partitions. Listings are ordered by
// upload time, then id.
type ModelStore interface {
	// ListModels retrieves every model of a library partition.
	ListModels(ctx context.Context, library model.LibraryType) ([]*model.Model, error)
	// GetModel retrieves a model by library and id.
	GetModel(ctx context.Context, library model.LibraryType, id string) (*model.Model, error)
	// CreateModel inserts a new model.
	CreateModel(ctx context.Context, m *model.Model) error
	// UpdateModel overwrites a stored model.
	UpdateModel(ctx context.Context, m *model.Model) error
	// DeleteModel removes a model by library and id.
	DeleteModel(ctx context.Context, library model.LibraryType, id string) error
	// ReplaceMirrors swaps the mirror set of a library, leaving origins untouched.
	ReplaceMirrors(ctx context.Context, library model.LibraryType, mirrors []*model.Model) error
}
