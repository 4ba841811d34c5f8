package service

import (
	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/project"
	"github.com/emrgen/modelhub/internal/workflow"
)

func toModel(m *model.Model) *v1.Model {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}

	return &v1.Model{
		Id:                  m.ID,
		OriginId:            m.OriginID(),
		IsMirror:            m.IsMirror(),
		Library:             string(m.Library),
		Status:              string(m.Status),
		IsPublic:            m.IsPublic,
		Name:                m.Name,
		Type:                m.Type,
		Description:         m.Description,
		Version:             m.Version,
		Project:             m.Project,
		Tags:                tags,
		RflpCategory:        m.RFLPCategory,
		Dependencies:        toDependencies(m.Dependencies),
		Uploader:            m.Uploader,
		UploadTime:          m.UploadTime,
		Rating:              m.Rating,
		Downloads:           m.Downloads,
		ProjectApplications: toApplications(m.Applications),
	}
}

func toModels(models []*model.Model) []*v1.Model {
	out := make([]*v1.Model, 0, len(models))
	for _, m := range models {
		out = append(out, toModel(m))
	}
	return out
}

func toDependencies(d model.Dependencies) v1.Dependencies {
	out := v1.Dependencies{Upstream: d.Upstream, Downstream: d.Downstream}
	if out.Upstream == nil {
		out.Upstream = []string{}
	}
	if out.Downstream == nil {
		out.Downstream = []string{}
	}
	return out
}

func fromDependencies(d v1.Dependencies) model.Dependencies {
	return model.Dependencies{Upstream: d.Upstream, Downstream: d.Downstream}
}

func toApplications(apps []model.ProjectApplication) []v1.ProjectApplication {
	out := make([]v1.ProjectApplication, 0, len(apps))
	for _, app := range apps {
		out = append(out, v1.ProjectApplication{
			Id:           app.ID,
			ProjectName:  app.ProjectName,
			Status:       app.Status,
			UseCount:     app.UseCount,
			LastUsedDate: app.LastUsedDate,
			Team:         app.Team,
			Description:  app.Description,
		})
	}
	return out
}

func fromApplications(apps []v1.ProjectApplication) []model.ProjectApplication {
	if len(apps) == 0 {
		return nil
	}

	out := make([]model.ProjectApplication, 0, len(apps))
	for _, app := range apps {
		out = append(out, model.ProjectApplication{
			ID:           app.Id,
			ProjectName:  app.ProjectName,
			Status:       app.Status,
			UseCount:     app.UseCount,
			LastUsedDate: app.LastUsedDate,
			Team:         app.Team,
			Description:  app.Description,
		})
	}
	return out
}

func toAttempt(a *workflow.Attempt) *v1.PublishAttempt {
	out := &v1.PublishAttempt{
		Id:          a.ID,
		ModelId:     a.ModelID,
		WorkflowId:  a.WorkflowID,
		ReviewerIds: a.ReviewerIDs,
		Notes:       a.Notes,
		Stage:       a.Stage.String(),
		Progress:    a.Progress,
		Outcome:     string(a.Outcome),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Check != nil {
		out.Check = toCheck(a.Check)
	}
	return out
}

func toCheck(c *workflow.CheckResult) *v1.CheckResult {
	out := &v1.CheckResult{Score: c.Score, Passed: c.Passed}
	for _, item := range c.Items {
		out.Items = append(out.Items, v1.CheckItem{
			Name:    item.Name,
			Passed:  item.Passed,
			Score:   item.Score,
			Message: item.Message,
		})
	}
	return out
}

func toWorkflow(d workflow.Definition) *v1.Workflow {
	out := &v1.Workflow{Id: d.ID, Name: d.Name}
	for _, stage := range d.Stages {
		out.Stages = append(out.Stages, v1.WorkflowStage{
			Name:              stage.Name,
			Kind:              string(stage.Kind),
			ExpectedDuration:  stage.ExpectedDuration.String(),
			RequiredReviewers: stage.RequiredReviewers,
		})
	}
	return out
}

func toReviewer(r workflow.Reviewer) *v1.Reviewer {
	return &v1.Reviewer{
		Id:        r.ID,
		Name:      r.Name,
		Role:      r.Role,
		Expertise: r.Expertise,
	}
}

func toStats(s project.Stats) *v1.ProjectStats {
	return &v1.ProjectStats{
		ModelCount:    s.ModelCount,
		TotalUseCount: s.TotalUseCount,
		Status:        s.Status,
		Team:          s.Team,
		LastUsedDate:  s.LastUsedDate,
		Description:   s.Description,
	}
}
