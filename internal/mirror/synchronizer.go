package mirror

import (
	"context"
	"reflect"
	"sync/atomic"

	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/store"
	"github.com/sirupsen/logrus"
)

// Scope limits a synchronization pass to one side.
type Scope int

const (
	ScopeAll Scope = iota
	ScopePublic
	ScopeProject
)

func (s Scope) String() string {
	switch s {
	case ScopePublic:
		return "public"
	case ScopeProject:
		return "project"
	default:
		return "all"
	}
}

type scopeKey struct{}

// WithScope makes the synchronization triggered under ctx run only one side.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func scopeFrom(ctx context.Context) Scope {
	if scope, ok := ctx.Value(scopeKey{}).(Scope); ok {
		return scope
	}

	return ScopeAll
}

// Synchronizer applies the mirror derivation to a store.
//
// Its own mirror writes are observed like any other write, so a pass must not
// start while another one is running. Callers serialize committing writers;
// the guard only stops the synchronizer from triggering itself.
type Synchronizer struct {
	running atomic.Bool
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// PartitionChanged is the store.Listener that triggers a pass after writes to
// the personal or project partition.
func (s *Synchronizer) PartitionChanged(ctx context.Context, tx store.Store, library model.LibraryType) error {
	if library == model.LibraryPublic {
		return nil
	}

	return s.Sync(ctx, tx, scopeFrom(ctx))
}

// Sync recomputes the mirrors of the requested scope inside tx. It is a no-op
// when a pass is already running.
func (s *Synchronizer) Sync(ctx context.Context, tx store.ModelStore, scope Scope) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.running.Store(false)

	personal, err := tx.ListModels(ctx, model.LibraryPersonal)
	if err != nil {
		return err
	}

	if scope != ScopeProject {
		if err := s.apply(ctx, tx, model.LibraryPublic, SyncPublic(personal)); err != nil {
			return err
		}
	}

	if scope != ScopePublic {
		project, err := tx.ListModels(ctx, model.LibraryProject)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, tx, model.LibraryProject, SyncProject(personal, project)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Synchronizer) apply(ctx context.Context, tx store.ModelStore, library model.LibraryType, next []*model.Model) error {
	all, err := tx.ListModels(ctx, library)
	if err != nil {
		return err
	}

	current := make([]*model.Model, 0, len(all))
	for _, m := range all {
		if m.IsMirror() {
			current = append(current, m)
		}
	}

	if sameMirrors(current, next) {
		return nil
	}

	logrus.Infof("syncing %s mirrors: %d -> %d", library, len(current), len(next))

	return tx.ReplaceMirrors(ctx, library, next)
}

func sameMirrors(current, next []*model.Model) bool {
	if len(current) != len(next) {
		return false
	}

	byID := make(map[string]*model.Model, len(current))
	for _, m := range current {
		byID[m.ID] = m
	}

	for _, m := range next {
		cur, ok := byID[m.ID]
		if !ok || !reflect.DeepEqual(cur, m) {
			return false
		}
	}

	return true
}
