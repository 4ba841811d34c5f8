package service

import (
	"context"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/project"
	"github.com/sirupsen/logrus"
)

var (
	_ v1.ProjectServiceServer = (*ProjectService)(nil)
)

func NewProjectService(library *LibraryService) *ProjectService {
	return &ProjectService{library: library}
}

// ProjectService aggregates the project library by the projects using it.
type ProjectService struct {
	library *LibraryService
}

// ProjectStats reports the stats of one project bucket, served from the cache
// until the next committed mutation.
func (p *ProjectService) ProjectStats(ctx context.Context, request *v1.ProjectStatsRequest) (*v1.ProjectStatsResponse, error) {
	cached, ok, err := p.library.cache.GetStats(ctx, request.ProjectName)
	if err != nil {
		logrus.Warnf("project stats cache read failed: %v", err)
	}
	if ok {
		return &v1.ProjectStatsResponse{ProjectName: request.ProjectName, Stats: toStats(*cached)}, nil
	}

	// writers invalidate the cache under the same lock
	p.library.mu.Lock()
	defer p.library.mu.Unlock()

	models, err := p.library.store.ListModels(ctx, model.LibraryProject)
	if err != nil {
		return nil, err
	}

	stats := project.StatsFor(models, request.ProjectName)
	if err := p.library.cache.SetStats(ctx, request.ProjectName, &stats); err != nil {
		logrus.Warnf("project stats cache write failed: %v", err)
	}

	return &v1.ProjectStatsResponse{ProjectName: request.ProjectName, Stats: toStats(stats)}, nil
}

// ListProjects lists every project bucket, the unassigned bucket last.
func (p *ProjectService) ListProjects(ctx context.Context, _ *v1.ListProjectsRequest) (*v1.ListProjectsResponse, error) {
	models, err := p.library.store.ListModels(ctx, model.LibraryProject)
	if err != nil {
		return nil, err
	}

	summaries := project.Summaries(models)
	projects := make([]*v1.ProjectSummary, 0, len(summaries))
	for _, summary := range summaries {
		ids := make([]string, 0, len(summary.Models))
		for _, m := range summary.Models {
			ids = append(ids, m.ID)
		}

		projects = append(projects, &v1.ProjectSummary{
			Name:     summary.Name,
			Stats:    *toStats(summary.Stats),
			ModelIds: ids,
		})
	}

	return &v1.ListProjectsResponse{Projects: projects}, nil
}
