package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver"
	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/cache"
	"github.com/emrgen/modelhub/internal/mirror"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/queue"
	"github.com/emrgen/modelhub/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	_ v1.ModelServiceServer = (*LibraryService)(nil)
)

// NewLibraryService creates a LibraryService over s. Every committed write to
// the personal or project partition re-derives the mirrors in the same
// transaction.
func NewLibraryService(s store.Store, notifier queue.Notifier, statsCache cache.StatsCache) *LibraryService {
	if notifier == nil {
		notifier = queue.NopNotifier{}
	}
	if statsCache == nil {
		statsCache = cache.NopCache{}
	}

	synchronizer := mirror.NewSynchronizer()

	return &LibraryService{
		store:        store.NewObservedStore(s, synchronizer.PartitionChanged),
		synchronizer: synchronizer,
		notifier:     notifier,
		cache:        statsCache,
		now:          time.Now,
	}
}

// LibraryService is the model store facade of the three library partitions.
type LibraryService struct {
	// serializes committing writers
	mu           sync.Mutex
	store        store.Store
	synchronizer *mirror.Synchronizer
	notifier     queue.Notifier
	cache        cache.StatsCache
	now          func() time.Time
	// run after a personal origin is deleted
	onDelete []func(ctx context.Context, modelID string)
}

// OnDelete registers f to run after a personal origin is deleted. Register
// before serving requests.
func (l *LibraryService) OnDelete(f func(ctx context.Context, modelID string)) {
	l.onDelete = append(l.onDelete, f)
}

// ListModels lists a partition narrowed by the request filter.
func (l *LibraryService) ListModels(ctx context.Context, request *v1.ListModelsRequest) (*v1.ListModelsResponse, error) {
	library, err := model.ParseLibraryType(request.Library)
	if err != nil {
		return nil, err
	}

	models, err := l.store.ListModels(ctx, library)
	if err != nil {
		return nil, err
	}

	filter := model.Filter{
		Search:       request.Search,
		Types:        request.Types,
		Tags:         request.Tags,
		RFLPCategory: request.RflpCategory,
	}

	matched := make([]*model.Model, 0, len(models))
	for _, m := range models {
		if filter.Match(m) {
			matched = append(matched, m)
		}
	}

	return &v1.ListModelsResponse{Models: toModels(matched)}, nil
}

func (l *LibraryService) GetModel(ctx context.Context, request *v1.GetModelRequest) (*v1.GetModelResponse, error) {
	library, err := model.ParseLibraryType(request.Library)
	if err != nil {
		return nil, err
	}

	m, err := l.store.GetModel(ctx, library, request.Id)
	if err != nil {
		return nil, err
	}

	return &v1.GetModelResponse{Model: toModel(m)}, nil
}

// CreateModel creates an origin in the personal or project library. Personal
// models always start as drafts.
func (l *LibraryService) CreateModel(ctx context.Context, request *v1.CreateModelRequest) (*v1.CreateModelResponse, error) {
	library, err := model.ParseLibraryType(request.Library)
	if err != nil {
		return nil, err
	}
	if library == model.LibraryPublic {
		return nil, fmt.Errorf("%w: the public library only holds mirrors", ErrMirrorReadOnly)
	}
	if request.Draft == nil {
		return nil, fmt.Errorf("%w: draft is required", v1.ErrInvalidArgument)
	}

	draft := request.Draft
	content := model.Content{
		Name:         strings.TrimSpace(draft.Name),
		Type:         draft.Type,
		Description:  draft.Description,
		Version:      strings.TrimSpace(draft.Version),
		Project:      draft.Project,
		Tags:         draft.Tags,
		RFLPCategory: draft.RflpCategory,
		Dependencies: fromDependencies(draft.Dependencies),
		Uploader:     draft.Uploader,
		UploadTime:   l.now().UTC(),
		Rating:       draft.Rating,
		Downloads:    draft.Downloads,
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(request.Id)
	if id == "" {
		id = uuid.New().String()
	}
	if library == model.LibraryProject && mirror.IsReservedID(id) {
		return nil, fmt.Errorf("%w: %s", ErrReservedID, id)
	}

	m := model.NewOrigin(id, library, content)
	m.Applications = fromApplications(draft.ProjectApplications)

	scope := mirror.ScopeAll
	switch library {
	case model.LibraryPersonal:
		m.IsPublic = request.IsPublic
	case model.LibraryProject:
		scope = mirror.ScopeProject
		if request.Status != "" {
			status, err := parseStatus(request.Status)
			if err != nil {
				return nil, err
			}
			m.Status = status
		}
	}

	err = l.commit(ctx, scope, func(ctx context.Context, tx store.Store) error {
		return tx.CreateModel(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("model %s uploaded to the %s library", m.ID, m.Library)
	l.notify(ctx, queue.Notification{
		Kind:     queue.KindModelUploaded,
		ModelID:  m.ID,
		Library:  m.Library,
		Status:   m.Status,
		IsPublic: m.IsPublic,
	})

	return &v1.CreateModelResponse{Model: toModel(m)}, nil
}

// UpdateModel applies a content patch to an origin. Status, visibility and
// the mirror fields are not patchable. On a project mirror only the project
// applications can be patched.
func (l *LibraryService) UpdateModel(ctx context.Context, request *v1.UpdateModelRequest) (*v1.UpdateModelResponse, error) {
	library, err := model.ParseLibraryType(request.Library)
	if err != nil {
		return nil, err
	}
	if request.Patch == nil {
		return nil, fmt.Errorf("%w: patch is required", v1.ErrInvalidArgument)
	}

	var updated *model.Model
	err = l.commit(ctx, scopeOf(library), func(ctx context.Context, tx store.Store) error {
		m, err := tx.GetModel(ctx, library, request.Id)
		if err != nil {
			return err
		}
		switch {
		case !m.IsMirror():
			applyPatch(m, request.Patch)
			if err := validateContent(m.Content); err != nil {
				return err
			}
		case library == model.LibraryProject && mirrorOwnedOnly(request.Patch):
			// the mirror owns its applications only while the origin has none
			origin, err := tx.GetModel(ctx, model.LibraryPersonal, m.OriginID())
			if err != nil {
				return err
			}
			if len(origin.Applications) > 0 {
				return fmt.Errorf("%w: %s", ErrApplicationsOwnedByOrigin, origin.ID)
			}
			m.Applications = fromApplications(*request.Patch.ProjectApplications)
		default:
			return fmt.Errorf("%w: %s", ErrMirrorReadOnly, m.ID)
		}

		if err := tx.UpdateModel(ctx, m); err != nil {
			return err
		}

		// the sync ran inside UpdateModel, report what was stored
		updated, err = tx.GetModel(ctx, library, m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.notify(ctx, queue.Notification{
		Kind:     queue.KindModelUpdated,
		ModelID:  updated.ID,
		Library:  updated.Library,
		Status:   updated.Status,
		IsPublic: updated.IsPublic,
	})

	return &v1.UpdateModelResponse{Model: toModel(updated)}, nil
}

// DeleteModel removes an origin. Its mirrors are pruned in the same transaction.
func (l *LibraryService) DeleteModel(ctx context.Context, request *v1.DeleteModelRequest) (*v1.DeleteModelResponse, error) {
	library, err := model.ParseLibraryType(request.Library)
	if err != nil {
		return nil, err
	}

	err = l.commit(ctx, scopeOf(library), func(ctx context.Context, tx store.Store) error {
		m, err := tx.GetModel(ctx, library, request.Id)
		if err != nil {
			return err
		}
		if m.IsMirror() {
			return fmt.Errorf("%w: %s", ErrMirrorReadOnly, m.ID)
		}

		return tx.DeleteModel(ctx, library, m.ID)
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("model %s deleted from the %s library", request.Id, library)
	if library == model.LibraryPersonal {
		for _, f := range l.onDelete {
			f(ctx, request.Id)
		}
	}
	l.notify(ctx, queue.Notification{
		Kind:    queue.KindModelDeleted,
		ModelID: request.Id,
		Library: library,
	})

	return &v1.DeleteModelResponse{}, nil
}

// SetPublic toggles the visibility of a personal origin and refreshes the
// public mirrors.
func (l *LibraryService) SetPublic(ctx context.Context, request *v1.SetPublicRequest) (*v1.SetPublicResponse, error) {
	var updated *model.Model
	err := l.commit(ctx, mirror.ScopePublic, func(ctx context.Context, tx store.Store) error {
		m, err := tx.GetModel(ctx, model.LibraryPersonal, request.Id)
		if err != nil {
			return err
		}

		m.IsPublic = request.Public
		updated = m
		return tx.UpdateModel(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("model %s visibility set to public=%t", updated.ID, updated.IsPublic)
	l.notify(ctx, queue.Notification{
		Kind:     queue.KindVisibilityChanged,
		ModelID:  updated.ID,
		Library:  updated.Library,
		Status:   updated.Status,
		IsPublic: updated.IsPublic,
	})

	return &v1.SetPublicResponse{Model: toModel(updated)}, nil
}

// Resync runs a full synchronization pass and reports the mirror counts.
func (l *LibraryService) Resync(ctx context.Context, _ *v1.ResyncRequest) (*v1.ResyncResponse, error) {
	response := &v1.ResyncResponse{}
	err := l.commit(ctx, mirror.ScopeAll, func(ctx context.Context, tx store.Store) error {
		if err := l.synchronizer.Sync(ctx, tx, mirror.ScopeAll); err != nil {
			return err
		}

		var err error
		if response.PublicMirrors, err = countMirrors(ctx, tx, model.LibraryPublic); err != nil {
			return err
		}
		response.ProjectMirrors, err = countMirrors(ctx, tx, model.LibraryProject)
		return err
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// commit runs f in a store transaction with the sync scope set, then drops the
// cached project stats.
func (l *LibraryService) commit(ctx context.Context, scope mirror.Scope, f func(ctx context.Context, tx store.Store) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx = mirror.WithScope(ctx, scope)
	err := l.store.Transaction(ctx, func(tx store.Store) error {
		return f(ctx, tx)
	})
	if err != nil {
		return err
	}

	if err := l.cache.Invalidate(ctx); err != nil {
		logrus.Warnf("failed to invalidate project stats cache: %v", err)
	}

	return nil
}

func (l *LibraryService) notify(ctx context.Context, n queue.Notification) {
	if n.Time.IsZero() {
		n.Time = l.now().UTC()
	}

	if err := l.notifier.Notify(ctx, n); err != nil {
		logrus.Warnf("failed to deliver %s notification for %s: %v", n.Kind, n.ModelID, err)
	}
}

func countMirrors(ctx context.Context, tx store.ModelStore, library model.LibraryType) (int, error) {
	models, err := tx.ListModels(ctx, library)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range models {
		if m.IsMirror() {
			count++
		}
	}

	return count, nil
}

// writes to the project partition never change the public mirrors
func scopeOf(library model.LibraryType) mirror.Scope {
	if library == model.LibraryProject {
		return mirror.ScopeProject
	}

	return mirror.ScopeAll
}

func validateContent(c model.Content) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if _, err := semver.NewVersion(c.Version); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, c.Version)
	}

	return nil
}

func applyPatch(m *model.Model, patch *v1.ModelPatch) {
	if patch.Name != nil {
		m.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Version != nil {
		m.Version = strings.TrimSpace(*patch.Version)
	}
	if patch.Project != nil {
		m.Project = *patch.Project
	}
	if patch.Tags != nil {
		m.Tags = *patch.Tags
	}
	if patch.RflpCategory != nil {
		m.RFLPCategory = *patch.RflpCategory
	}
	if patch.Dependencies != nil {
		m.Dependencies = fromDependencies(*patch.Dependencies)
	}
	if patch.Rating != nil {
		m.Rating = *patch.Rating
	}
	if patch.ProjectApplications != nil {
		m.Applications = fromApplications(*patch.ProjectApplications)
	}
}

func mirrorOwnedOnly(patch *v1.ModelPatch) bool {
	return patch.ProjectApplications != nil &&
		patch.Name == nil &&
		patch.Type == nil &&
		patch.Description == nil &&
		patch.Version == nil &&
		patch.Project == nil &&
		patch.Tags == nil &&
		patch.RflpCategory == nil &&
		patch.Dependencies == nil &&
		patch.Rating == nil
}

func parseStatus(s string) (model.Status, error) {
	switch status := model.Status(strings.ToLower(strings.TrimSpace(s))); status {
	case model.StatusDraft, model.StatusUnderReview, model.StatusPublished:
		return status, nil
	}

	return "", fmt.Errorf("%w: unknown status %q", v1.ErrInvalidArgument, s)
}
