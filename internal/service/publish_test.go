package service

import (
	"context"
	"testing"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/queue"
	"github.com/emrgen/modelhub/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishService_ReviewDecision(t *testing.T) {
	tests := []struct {
		name       string
		decision   string
		status     string
		hasMirror  bool
		republish  error
		attemptOut string
	}{
		{name: "approve", decision: v1.DecisionApprove, status: "published", hasMirror: true, republish: ErrAlreadyPublished, attemptOut: "approved"},
		{name: "reject", decision: v1.DecisionReject, status: "draft", hasMirror: false, attemptOut: "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			m := f.create(t, "personal", "Reviewed")
			attempt := f.submit(t, m.Id)

			res, err := f.publish.ReviewDecision(context.TODO(), &v1.ReviewDecisionRequest{AttemptId: attempt.Id, Decision: tt.decision})
			require.NoError(t, err)
			assert.Equal(t, tt.attemptOut, res.Attempt.Outcome)
			assert.Equal(t, tt.status, res.Model.Status)

			mirror, ok := f.list(t, "project")["mirror-"+m.Id]
			assert.Equal(t, tt.hasMirror, ok)
			if ok {
				assert.Equal(t, tt.status, mirror.Status)
			}

			_, err = f.publish.ReviewDecision(context.TODO(), &v1.ReviewDecisionRequest{AttemptId: attempt.Id, Decision: tt.decision})
			assert.ErrorIs(t, err, workflow.ErrNotSubmitted)

			_, err = f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: m.Id})
			if tt.republish != nil {
				assert.ErrorIs(t, err, tt.republish)
			} else {
				assert.NoError(t, err)
			}

			assert.Contains(t, f.events.kinds(), queue.KindReviewDecided)
		})
	}
}

func TestPublishService_InvalidDecision(t *testing.T) {
	f := newFixture(t)

	_, err := f.publish.ReviewDecision(context.TODO(), &v1.ReviewDecisionRequest{AttemptId: "a", Decision: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestPublishService_CheckFailure(t *testing.T) {
	f := newFixture(t)

	d := draft("Bad Deps")
	d.Dependencies = v1.Dependencies{Upstream: []string{"x"}, Downstream: []string{"x"}}
	res, err := f.library.CreateModel(context.TODO(), &v1.CreateModelRequest{Library: "personal", Draft: d})
	require.NoError(t, err)
	id := res.Model.Id

	start, err := f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: id})
	require.NoError(t, err)
	attemptID := start.Attempt.Id

	_, err = f.publish.ChooseWorkflow(context.TODO(), &v1.ChooseWorkflowRequest{AttemptId: attemptID, WorkflowId: "comprehensive"})
	require.NoError(t, err)
	_, err = f.publish.ChooseReviewers(context.TODO(), &v1.ChooseReviewersRequest{AttemptId: attemptID, ReviewerIds: []string{"rev-002", "rev-004"}})
	require.NoError(t, err)

	_, err = f.publish.RunCheck(context.TODO(), &v1.RunCheckRequest{AttemptId: attemptID})
	assert.ErrorIs(t, err, workflow.ErrCheckFailed)

	got, err := f.publish.GetAttempt(context.TODO(), &v1.GetAttemptRequest{AttemptId: attemptID})
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Attempt.Stage)
	assert.Equal(t, "check_failed", got.Attempt.Outcome)
	require.NotNil(t, got.Attempt.Check)
	assert.False(t, got.Attempt.Check.Passed)

	model, err := f.library.GetModel(context.TODO(), &v1.GetModelRequest{Library: "personal", Id: id})
	require.NoError(t, err)
	assert.Equal(t, "draft", model.Model.Status)
	assert.NotContains(t, f.list(t, "project"), "mirror-"+id)
	assert.Contains(t, f.events.kinds(), queue.KindReviewFailed)

	_, err = f.publish.ConfirmPublish(context.TODO(), &v1.ConfirmPublishRequest{AttemptId: attemptID})
	assert.ErrorIs(t, err, workflow.ErrAttemptClosed)
}

func TestPublishService_StartErrors(t *testing.T) {
	f := newFixture(t)
	m := f.create(t, "personal", "Busy")

	_, err := f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: "missing"})
	assert.Error(t, err)

	first, err := f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: m.Id})
	require.NoError(t, err)

	_, err = f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: m.Id})
	assert.ErrorIs(t, err, workflow.ErrAttemptInFlight)

	_, err = f.publish.ChooseWorkflow(context.TODO(), &v1.ChooseWorkflowRequest{AttemptId: first.Attempt.Id, WorkflowId: "standard"})
	require.NoError(t, err)

	_, err = f.publish.ChooseReviewers(context.TODO(), &v1.ChooseReviewersRequest{AttemptId: first.Attempt.Id})
	assert.ErrorIs(t, err, workflow.ErrNoReviewers)

	back, err := f.publish.GoBack(context.TODO(), &v1.GoBackRequest{AttemptId: first.Attempt.Id})
	require.NoError(t, err)
	assert.Equal(t, "choosing_workflow", back.Attempt.Stage)

	cancelled, err := f.publish.CancelPublish(context.TODO(), &v1.CancelPublishRequest{AttemptId: first.Attempt.Id})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Attempt.Outcome)

	model, err := f.library.GetModel(context.TODO(), &v1.GetModelRequest{Library: "personal", Id: m.Id})
	require.NoError(t, err)
	assert.Equal(t, "draft", model.Model.Status)

	_, err = f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: m.Id})
	assert.NoError(t, err)
}

func TestPublishService_ConfirmAfterDeletion(t *testing.T) {
	f := newFixture(t)
	m := f.create(t, "personal", "Gone")

	start, err := f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: m.Id})
	require.NoError(t, err)
	id := start.Attempt.Id
	_, err = f.publish.ChooseWorkflow(context.TODO(), &v1.ChooseWorkflowRequest{AttemptId: id, WorkflowId: "fast-track"})
	require.NoError(t, err)
	_, err = f.publish.ChooseReviewers(context.TODO(), &v1.ChooseReviewersRequest{AttemptId: id, ReviewerIds: []string{"rev-005"}})
	require.NoError(t, err)
	_, err = f.publish.RunCheck(context.TODO(), &v1.RunCheckRequest{AttemptId: id})
	require.NoError(t, err)

	_, err = f.library.DeleteModel(context.TODO(), &v1.DeleteModelRequest{Library: "personal", Id: m.Id})
	require.NoError(t, err)

	// the attempt went with the model
	got, err := f.publish.GetAttempt(context.TODO(), &v1.GetAttemptRequest{AttemptId: id})
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Attempt.Stage)
	assert.Equal(t, "cancelled", got.Attempt.Outcome)

	_, err = f.publish.ConfirmPublish(context.TODO(), &v1.ConfirmPublishRequest{AttemptId: id})
	assert.ErrorIs(t, err, workflow.ErrAttemptClosed)
	assert.Empty(t, f.list(t, "project"))
}

func TestPublishService_RestartAfterRecreate(t *testing.T) {
	f := newFixture(t)

	create := func() {
		_, err := f.library.CreateModel(context.TODO(), &v1.CreateModelRequest{Library: "personal", Id: "p1", Draft: draft("Reborn")})
		require.NoError(t, err)
	}

	create()
	_, err := f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: "p1"})
	require.NoError(t, err)

	_, err = f.library.DeleteModel(context.TODO(), &v1.DeleteModelRequest{Library: "personal", Id: "p1"})
	require.NoError(t, err)
	create()

	start, err := f.publish.StartPublish(context.TODO(), &v1.StartPublishRequest{ModelId: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "choosing_workflow", start.Attempt.Stage)
}

func TestPublishService_ReferenceData(t *testing.T) {
	f := newFixture(t)

	workflows, err := f.publish.ListWorkflows(context.TODO(), &v1.ListWorkflowsRequest{})
	require.NoError(t, err)
	require.Len(t, workflows.Workflows, 3)
	assert.Equal(t, "standard", workflows.Workflows[0].Id)
	assert.Equal(t, "automatic", workflows.Workflows[0].Stages[0].Kind)

	reviewers, err := f.publish.ListReviewers(context.TODO(), &v1.ListReviewersRequest{})
	require.NoError(t, err)
	assert.Len(t, reviewers.Reviewers, 5)
}
