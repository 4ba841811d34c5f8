package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/mirror"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/queue"
	"github.com/emrgen/modelhub/internal/store"
	"github.com/emrgen/modelhub/internal/workflow"
	"github.com/sirupsen/logrus"
)

var (
	_ v1.PublishServiceServer = (*PublishService)(nil)
)

// NewPublishService creates a PublishService promoting models of library.
func NewPublishService(library *LibraryService, manager *workflow.Manager) *PublishService {
	p := &PublishService{
		library: library,
		manager: manager,
	}
	library.OnDelete(p.cancelFor)

	return p
}

// PublishService drives publish attempts from a personal model to the project
// library.
type PublishService struct {
	library *LibraryService
	manager *workflow.Manager
}

// StartPublish opens an attempt. Published models and models with an attempt
// in flight are rejected.
func (p *PublishService) StartPublish(ctx context.Context, request *v1.StartPublishRequest) (*v1.PublishAttemptResponse, error) {
	m, err := p.library.store.GetModel(ctx, model.LibraryPersonal, request.ModelId)
	if err != nil {
		return nil, err
	}
	if m.Status == model.StatusPublished {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPublished, m.ID)
	}

	attempt, err := p.manager.Start(m.ID)
	if err != nil {
		return nil, err
	}

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt)}, nil
}

func (p *PublishService) ChooseWorkflow(_ context.Context, request *v1.ChooseWorkflowRequest) (*v1.PublishAttemptResponse, error) {
	attempt, err := p.manager.ChooseWorkflow(request.AttemptId, request.WorkflowId)
	if err != nil {
		return nil, err
	}

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt)}, nil
}

func (p *PublishService) ChooseReviewers(_ context.Context, request *v1.ChooseReviewersRequest) (*v1.PublishAttemptResponse, error) {
	attempt, err := p.manager.ChooseReviewers(request.AttemptId, request.ReviewerIds, request.Notes)
	if err != nil {
		return nil, err
	}

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt)}, nil
}

// RunCheck runs the automated check against the current state of the model.
// A failing check closes the attempt and emits a review_failed notification.
func (p *PublishService) RunCheck(ctx context.Context, request *v1.RunCheckRequest) (*v1.PublishAttemptResponse, error) {
	attempt, err := p.manager.Get(request.AttemptId)
	if err != nil {
		return nil, err
	}

	m, err := p.library.store.GetModel(ctx, model.LibraryPersonal, attempt.ModelID)
	if err != nil {
		return nil, err
	}

	result, err := p.manager.RunCheck(ctx, attempt.ID, m)
	if errors.Is(err, workflow.ErrCheckFailed) {
		p.library.notify(ctx, queue.Notification{
			Kind:      queue.KindReviewFailed,
			ModelID:   m.ID,
			Library:   m.Library,
			Status:    m.Status,
			IsPublic:  m.IsPublic,
			AttemptID: attempt.ID,
			Message:   fmt.Sprintf("automated check scored %d", result.Score),
		})
		return nil, fmt.Errorf("%w: score %d", err, result.Score)
	}
	if err != nil {
		return nil, err
	}

	return p.attemptResponse(attempt.ID)
}

// ConfirmPublish moves the model under review and creates or refreshes its
// project mirror in the same transaction.
func (p *PublishService) ConfirmPublish(ctx context.Context, request *v1.ConfirmPublishRequest) (*v1.PublishAttemptResponse, error) {
	var published *model.Model
	attempt, err := p.manager.Confirm(request.AttemptId, func(a *workflow.Attempt) error {
		return p.library.commit(ctx, mirror.ScopeAll, func(ctx context.Context, tx store.Store) error {
			m, err := tx.GetModel(ctx, model.LibraryPersonal, a.ModelID)
			if err != nil {
				return err
			}
			if m.Status == model.StatusPublished {
				return fmt.Errorf("%w: %s", ErrAlreadyPublished, m.ID)
			}

			m.Status = model.StatusUnderReview
			published = m
			return tx.UpdateModel(ctx, m)
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("model %s submitted for review with workflow %s", published.ID, attempt.WorkflowID)
	p.library.notify(ctx, queue.Notification{
		Kind:      queue.KindModelPublished,
		ModelID:   published.ID,
		Library:   published.Library,
		Status:    published.Status,
		IsPublic:  published.IsPublic,
		AttemptID: attempt.ID,
	})

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt), Model: toModel(published)}, nil
}

// CancelPublish abandons an unfinished attempt. The library is not touched.
func (p *PublishService) CancelPublish(_ context.Context, request *v1.CancelPublishRequest) (*v1.PublishAttemptResponse, error) {
	attempt, err := p.manager.Cancel(request.AttemptId)
	if err != nil {
		return nil, err
	}

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt)}, nil
}

func (p *PublishService) GoBack(_ context.Context, request *v1.GoBackRequest) (*v1.PublishAttemptResponse, error) {
	attempt, err := p.manager.Back(request.AttemptId)
	if err != nil {
		return nil, err
	}

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt)}, nil
}

func (p *PublishService) GetAttempt(_ context.Context, request *v1.GetAttemptRequest) (*v1.PublishAttemptResponse, error) {
	return p.attemptResponse(request.AttemptId)
}

// ReviewDecision applies the external review outcome of a submitted attempt:
// approve publishes the model, reject returns it to draft and drops its
// project mirror.
func (p *PublishService) ReviewDecision(ctx context.Context, request *v1.ReviewDecisionRequest) (*v1.PublishAttemptResponse, error) {
	var approve bool
	switch request.Decision {
	case v1.DecisionApprove:
		approve = true
	case v1.DecisionReject:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, request.Decision)
	}

	var decided *model.Model
	attempt, err := p.manager.Decide(request.AttemptId, approve, func(a *workflow.Attempt) error {
		return p.library.commit(ctx, mirror.ScopeAll, func(ctx context.Context, tx store.Store) error {
			m, err := tx.GetModel(ctx, model.LibraryPersonal, a.ModelID)
			if err != nil {
				return err
			}
			if m.Status != model.StatusUnderReview {
				return fmt.Errorf("%w: %s is %s", ErrNotUnderReview, m.ID, m.Status)
			}

			if approve {
				m.Status = model.StatusPublished
			} else {
				m.Status = model.StatusDraft
			}
			decided = m
			return tx.UpdateModel(ctx, m)
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("review of model %s decided: %s", decided.ID, request.Decision)
	p.library.notify(ctx, queue.Notification{
		Kind:      queue.KindReviewDecided,
		ModelID:   decided.ID,
		Library:   decided.Library,
		Status:    decided.Status,
		IsPublic:  decided.IsPublic,
		AttemptID: attempt.ID,
		Message:   request.Decision,
	})

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt), Model: toModel(decided)}, nil
}

func (p *PublishService) ListWorkflows(context.Context, *v1.ListWorkflowsRequest) (*v1.ListWorkflowsResponse, error) {
	definitions := p.manager.Catalog().Definitions()
	workflows := make([]*v1.Workflow, 0, len(definitions))
	for _, definition := range definitions {
		workflows = append(workflows, toWorkflow(definition))
	}

	return &v1.ListWorkflowsResponse{Workflows: workflows}, nil
}

func (p *PublishService) ListReviewers(context.Context, *v1.ListReviewersRequest) (*v1.ListReviewersResponse, error) {
	reviewers := p.manager.Catalog().Reviewers()
	out := make([]*v1.Reviewer, 0, len(reviewers))
	for _, reviewer := range reviewers {
		out = append(out, toReviewer(reviewer))
	}

	return &v1.ListReviewersResponse{Reviewers: out}, nil
}

// ExpireAttempts closes attempts idle for longer than ttl.
func (p *PublishService) ExpireAttempts(ttl time.Duration) int {
	expired := p.manager.Expire(ttl)
	for _, attempt := range expired {
		logrus.Infof("publish attempt %s for model %s expired", attempt.ID, attempt.ModelID)
	}

	return len(expired)
}

func (p *PublishService) attemptResponse(id string) (*v1.PublishAttemptResponse, error) {
	attempt, err := p.manager.Get(id)
	if err != nil {
		return nil, err
	}

	return &v1.PublishAttemptResponse{Attempt: toAttempt(attempt)}, nil
}

// cancelFor releases the in-flight attempt of a deleted model so a model
// recreated under the same id can be published again.
func (p *PublishService) cancelFor(_ context.Context, modelID string) {
	attempt, ok := p.manager.ActiveFor(modelID)
	if !ok {
		return
	}
	if _, err := p.manager.Cancel(attempt.ID); err != nil {
		logrus.Warnf("failed to cancel publish attempt %s of deleted model %s: %v", attempt.ID, modelID, err)
	}
}
