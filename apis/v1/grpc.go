package v1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ModelServiceName   = "modelhub.v1.ModelService"
	PublishServiceName = "modelhub.v1.PublishService"
	ProjectServiceName = "modelhub.v1.ProjectService"
)

type ModelServiceServer interface {
	ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error)
	GetModel(context.Context, *GetModelRequest) (*GetModelResponse, error)
	CreateModel(context.Context, *CreateModelRequest) (*CreateModelResponse, error)
	UpdateModel(context.Context, *UpdateModelRequest) (*UpdateModelResponse, error)
	DeleteModel(context.Context, *DeleteModelRequest) (*DeleteModelResponse, error)
	SetPublic(context.Context, *SetPublicRequest) (*SetPublicResponse, error)
	Resync(context.Context, *ResyncRequest) (*ResyncResponse, error)
}

type PublishServiceServer interface {
	StartPublish(context.Context, *StartPublishRequest) (*PublishAttemptResponse, error)
	ChooseWorkflow(context.Context, *ChooseWorkflowRequest) (*PublishAttemptResponse, error)
	ChooseReviewers(context.Context, *ChooseReviewersRequest) (*PublishAttemptResponse, error)
	RunCheck(context.Context, *RunCheckRequest) (*PublishAttemptResponse, error)
	ConfirmPublish(context.Context, *ConfirmPublishRequest) (*PublishAttemptResponse, error)
	CancelPublish(context.Context, *CancelPublishRequest) (*PublishAttemptResponse, error)
	GoBack(context.Context, *GoBackRequest) (*PublishAttemptResponse, error)
	GetAttempt(context.Context, *GetAttemptRequest) (*PublishAttemptResponse, error)
	ReviewDecision(context.Context, *ReviewDecisionRequest) (*PublishAttemptResponse, error)
	ListWorkflows(context.Context, *ListWorkflowsRequest) (*ListWorkflowsResponse, error)
	ListReviewers(context.Context, *ListReviewersRequest) (*ListReviewersResponse, error)
}

type ProjectServiceServer interface {
	ProjectStats(context.Context, *ProjectStatsRequest) (*ProjectStatsResponse, error)
	ListProjects(context.Context, *ListProjectsRequest) (*ListProjectsResponse, error)
}

var ModelService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ModelServiceName,
	HandlerType: (*ModelServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ModelServiceName, "ListModels", ModelServiceServer.ListModels),
		unary(ModelServiceName, "GetModel", ModelServiceServer.GetModel),
		unary(ModelServiceName, "CreateModel", ModelServiceServer.CreateModel),
		unary(ModelServiceName, "UpdateModel", ModelServiceServer.UpdateModel),
		unary(ModelServiceName, "DeleteModel", ModelServiceServer.DeleteModel),
		unary(ModelServiceName, "SetPublic", ModelServiceServer.SetPublic),
		unary(ModelServiceName, "Resync", ModelServiceServer.Resync),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "modelhub/v1/model.json",
}

var PublishService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PublishServiceName,
	HandlerType: (*PublishServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PublishServiceName, "StartPublish", PublishServiceServer.StartPublish),
		unary(PublishServiceName, "ChooseWorkflow", PublishServiceServer.ChooseWorkflow),
		unary(PublishServiceName, "ChooseReviewers", PublishServiceServer.ChooseReviewers),
		unary(PublishServiceName, "RunCheck", PublishServiceServer.RunCheck),
		unary(PublishServiceName, "ConfirmPublish", PublishServiceServer.ConfirmPublish),
		unary(PublishServiceName, "CancelPublish", PublishServiceServer.CancelPublish),
		unary(PublishServiceName, "GoBack", PublishServiceServer.GoBack),
		unary(PublishServiceName, "GetAttempt", PublishServiceServer.GetAttempt),
		unary(PublishServiceName, "ReviewDecision", PublishServiceServer.ReviewDecision),
		unary(PublishServiceName, "ListWorkflows", PublishServiceServer.ListWorkflows),
		unary(PublishServiceName, "ListReviewers", PublishServiceServer.ListReviewers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "modelhub/v1/publish.json",
}

var ProjectService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProjectServiceName,
	HandlerType: (*ProjectServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProjectServiceName, "ProjectStats", ProjectServiceServer.ProjectStats),
		unary(ProjectServiceName, "ListProjects", ProjectServiceServer.ListProjects),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "modelhub/v1/project.json",
}

func RegisterModelServiceServer(s grpc.ServiceRegistrar, srv ModelServiceServer) {
	s.RegisterService(&ModelService_ServiceDesc, srv)
}

func RegisterPublishServiceServer(s grpc.ServiceRegistrar, srv PublishServiceServer) {
	s.RegisterService(&PublishService_ServiceDesc, srv)
}

func RegisterProjectServiceServer(s grpc.ServiceRegistrar, srv ProjectServiceServer) {
	s.RegisterService(&ProjectService_ServiceDesc, srv)
}

// unary builds the method descriptor dispatching to call on the registered server.
func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method

	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
