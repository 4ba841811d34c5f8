package v1

import (
	"context"

	"google.golang.org/grpc"
)

type ModelServiceClient interface {
	ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error)
	GetModel(ctx context.Context, in *GetModelRequest, opts ...grpc.CallOption) (*GetModelResponse, error)
	CreateModel(ctx context.Context, in *CreateModelRequest, opts ...grpc.CallOption) (*CreateModelResponse, error)
	UpdateModel(ctx context.Context, in *UpdateModelRequest, opts ...grpc.CallOption) (*UpdateModelResponse, error)
	DeleteModel(ctx context.Context, in *DeleteModelRequest, opts ...grpc.CallOption) (*DeleteModelResponse, error)
	SetPublic(ctx context.Context, in *SetPublicRequest, opts ...grpc.CallOption) (*SetPublicResponse, error)
	Resync(ctx context.Context, in *ResyncRequest, opts ...grpc.CallOption) (*ResyncResponse, error)
}

type PublishServiceClient interface {
	StartPublish(ctx context.Context, in *StartPublishRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	ChooseWorkflow(ctx context.Context, in *ChooseWorkflowRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	ChooseReviewers(ctx context.Context, in *ChooseReviewersRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	RunCheck(ctx context.Context, in *RunCheckRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	ConfirmPublish(ctx context.Context, in *ConfirmPublishRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	CancelPublish(ctx context.Context, in *CancelPublishRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	GoBack(ctx context.Context, in *GoBackRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	GetAttempt(ctx context.Context, in *GetAttemptRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	ReviewDecision(ctx context.Context, in *ReviewDecisionRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error)
	ListWorkflows(ctx context.Context, in *ListWorkflowsRequest, opts ...grpc.CallOption) (*ListWorkflowsResponse, error)
	ListReviewers(ctx context.Context, in *ListReviewersRequest, opts ...grpc.CallOption) (*ListReviewersResponse, error)
}

type ProjectServiceClient interface {
	ProjectStats(ctx context.Context, in *ProjectStatsRequest, opts ...grpc.CallOption) (*ProjectStatsResponse, error)
	ListProjects(ctx context.Context, in *ListProjectsRequest, opts ...grpc.CallOption) (*ListProjectsResponse, error)
}

func NewModelServiceClient(cc grpc.ClientConnInterface) ModelServiceClient {
	return &modelServiceClient{cc}
}

func NewPublishServiceClient(cc grpc.ClientConnInterface) PublishServiceClient {
	return &publishServiceClient{cc}
}

func NewProjectServiceClient(cc grpc.ClientConnInterface) ProjectServiceClient {
	return &projectServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type modelServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *modelServiceClient) ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error) {
	return invoke[ListModelsResponse](ctx, c.cc, ModelServiceName, "ListModels", in, opts)
}

func (c *modelServiceClient) GetModel(ctx context.Context, in *GetModelRequest, opts ...grpc.CallOption) (*GetModelResponse, error) {
	return invoke[GetModelResponse](ctx, c.cc, ModelServiceName, "GetModel", in, opts)
}

func (c *modelServiceClient) CreateModel(ctx context.Context, in *CreateModelRequest, opts ...grpc.CallOption) (*CreateModelResponse, error) {
	return invoke[CreateModelResponse](ctx, c.cc, ModelServiceName, "CreateModel", in, opts)
}

func (c *modelServiceClient) UpdateModel(ctx context.Context, in *UpdateModelRequest, opts ...grpc.CallOption) (*UpdateModelResponse, error) {
	return invoke[UpdateModelResponse](ctx, c.cc, ModelServiceName, "UpdateModel", in, opts)
}

func (c *modelServiceClient) DeleteModel(ctx context.Context, in *DeleteModelRequest, opts ...grpc.CallOption) (*DeleteModelResponse, error) {
	return invoke[DeleteModelResponse](ctx, c.cc, ModelServiceName, "DeleteModel", in, opts)
}

func (c *modelServiceClient) SetPublic(ctx context.Context, in *SetPublicRequest, opts ...grpc.CallOption) (*SetPublicResponse, error) {
	return invoke[SetPublicResponse](ctx, c.cc, ModelServiceName, "SetPublic", in, opts)
}

func (c *modelServiceClient) Resync(ctx context.Context, in *ResyncRequest, opts ...grpc.CallOption) (*ResyncResponse, error) {
	return invoke[ResyncResponse](ctx, c.cc, ModelServiceName, "Resync", in, opts)
}

type publishServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *publishServiceClient) StartPublish(ctx context.Context, in *StartPublishRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "StartPublish", in, opts)
}

func (c *publishServiceClient) ChooseWorkflow(ctx context.Context, in *ChooseWorkflowRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "ChooseWorkflow", in, opts)
}

func (c *publishServiceClient) ChooseReviewers(ctx context.Context, in *ChooseReviewersRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "ChooseReviewers", in, opts)
}

func (c *publishServiceClient) RunCheck(ctx context.Context, in *RunCheckRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "RunCheck", in, opts)
}

func (c *publishServiceClient) ConfirmPublish(ctx context.Context, in *ConfirmPublishRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "ConfirmPublish", in, opts)
}

func (c *publishServiceClient) CancelPublish(ctx context.Context, in *CancelPublishRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "CancelPublish", in, opts)
}

func (c *publishServiceClient) GoBack(ctx context.Context, in *GoBackRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "GoBack", in, opts)
}

func (c *publishServiceClient) GetAttempt(ctx context.Context, in *GetAttemptRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "GetAttempt", in, opts)
}

func (c *publishServiceClient) ReviewDecision(ctx context.Context, in *ReviewDecisionRequest, opts ...grpc.CallOption) (*PublishAttemptResponse, error) {
	return invoke[PublishAttemptResponse](ctx, c.cc, PublishServiceName, "ReviewDecision", in, opts)
}

func (c *publishServiceClient) ListWorkflows(ctx context.Context, in *ListWorkflowsRequest, opts ...grpc.CallOption) (*ListWorkflowsResponse, error) {
	return invoke[ListWorkflowsResponse](ctx, c.cc, PublishServiceName, "ListWorkflows", in, opts)
}

func (c *publishServiceClient) ListReviewers(ctx context.Context, in *ListReviewersRequest, opts ...grpc.CallOption) (*ListReviewersResponse, error) {
	return invoke[ListReviewersResponse](ctx, c.cc, PublishServiceName, "ListReviewers", in, opts)
}

type projectServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *projectServiceClient) ProjectStats(ctx context.Context, in *ProjectStatsRequest, opts ...grpc.CallOption) (*ProjectStatsResponse, error) {
	return invoke[ProjectStatsResponse](ctx, c.cc, ProjectServiceName, "ProjectStats", in, opts)
}

func (c *projectServiceClient) ListProjects(ctx context.Context, in *ListProjectsRequest, opts ...grpc.CallOption) (*ListProjectsResponse, error) {
	return invoke[ListProjectsResponse](ctx, c.cc, ProjectServiceName, "ListProjects", in, opts)
}
