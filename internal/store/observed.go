package store

import (
	"context"

	"github.com/emrgen/modelhub/internal/model"
)

// Listener is told about every committed write to a library partition. It runs
// with the same transaction the write happened in.
type Listener func(ctx context.Context, tx Store, library model.LibraryType) error

var _ Store = (*ObservedStore)(nil)

// ObservedStore reports partition mutations of the wrapped store to a listener.
type ObservedStore struct {
	Store
	listener Listener
}

func NewObservedStore(inner Store, listener Listener) *ObservedStore {
	return &ObservedStore{
		Store:    inner,
		listener: listener,
	}
}

func (o *ObservedStore) CreateModel(ctx context.Context, m *model.Model) error {
	if err := o.Store.CreateModel(ctx, m); err != nil {
		return err
	}

	return o.changed(ctx, m.Library)
}

func (o *ObservedStore) UpdateModel(ctx context.Context, m *model.Model) error {
	if err := o.Store.UpdateModel(ctx, m); err != nil {
		return err
	}

	return o.changed(ctx, m.Library)
}

func (o *ObservedStore) DeleteModel(ctx context.Context, library model.LibraryType, id string) error {
	if err := o.Store.DeleteModel(ctx, library, id); err != nil {
		return err
	}

	return o.changed(ctx, library)
}

func (o *ObservedStore) ReplaceMirrors(ctx context.Context, library model.LibraryType, mirrors []*model.Model) error {
	if err := o.Store.ReplaceMirrors(ctx, library, mirrors); err != nil {
		return err
	}

	return o.changed(ctx, library)
}

func (o *ObservedStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return o.Store.Transaction(ctx, func(tx Store) error {
		return f(&ObservedStore{Store: tx, listener: o.listener})
	})
}

func (o *ObservedStore) changed(ctx context.Context, library model.LibraryType) error {
	if o.listener == nil {
		return nil
	}

	return o.listener(ctx, o, library)
}
