package v1

type ListModelsRequest struct {
	Library      string   `json:"libraryType"`
	Search       string   `json:"search,omitempty"`
	Types        []string `json:"types,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	RflpCategory string   `json:"rflpCategory,omitempty"`
}

type ListModelsResponse struct {
	Models []*Model `json:"models"`
}

type GetModelRequest struct {
	Library string `json:"libraryType"`
	Id      string `json:"id"`
}

type GetModelResponse struct {
	Model *Model `json:"model"`
}

type CreateModelRequest struct {
	Library string `json:"libraryType"`
	// Id is generated when empty.
	Id       string      `json:"id,omitempty"`
	IsPublic bool        `json:"isPublic"`
	Status   string      `json:"status,omitempty"`
	Draft    *ModelDraft `json:"draft"`
}

type CreateModelResponse struct {
	Model *Model `json:"model"`
}

type UpdateModelRequest struct {
	Library string      `json:"libraryType"`
	Id      string      `json:"id"`
	Patch   *ModelPatch `json:"patch"`
}

type UpdateModelResponse struct {
	Model *Model `json:"model"`
}

type DeleteModelRequest struct {
	Library string `json:"libraryType"`
	Id      string `json:"id"`
}

type DeleteModelResponse struct{}

type SetPublicRequest struct {
	Id     string `json:"id"`
	Public bool   `json:"public"`
}

type SetPublicResponse struct {
	Model *Model `json:"model"`
}

type ResyncRequest struct{}

type ResyncResponse struct {
	PublicMirrors  int `json:"publicMirrors"`
	ProjectMirrors int `json:"projectMirrors"`
}

type StartPublishRequest struct {
	ModelId string `json:"modelId"`
}

type ChooseWorkflowRequest struct {
	AttemptId  string `json:"attemptId"`
	WorkflowId string `json:"workflowId"`
}

type ChooseReviewersRequest struct {
	AttemptId   string   `json:"attemptId"`
	ReviewerIds []string `json:"reviewerIds"`
	Notes       string   `json:"notes,omitempty"`
}

type RunCheckRequest struct {
	AttemptId string `json:"attemptId"`
}

type ConfirmPublishRequest struct {
	AttemptId string `json:"attemptId"`
}

type CancelPublishRequest struct {
	AttemptId string `json:"attemptId"`
}

type GoBackRequest struct {
	AttemptId string `json:"attemptId"`
}

type GetAttemptRequest struct {
	AttemptId string `json:"attemptId"`
}

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ReviewDecisionRequest struct {
	AttemptId string `json:"attemptId"`
	Decision  string `json:"decision"`
}

// PublishAttemptResponse answers every publish workflow call.
type PublishAttemptResponse struct {
	Attempt *PublishAttempt `json:"attempt"`
	Model   *Model          `json:"model,omitempty"`
}

type ListWorkflowsRequest struct{}

type ListWorkflowsResponse struct {
	Workflows []*Workflow `json:"workflows"`
}

type ListReviewersRequest struct{}

type ListReviewersResponse struct {
	Reviewers []*Reviewer `json:"reviewers"`
}

type ProjectStatsRequest struct {
	ProjectName string `json:"projectName"`
}

type ProjectStatsResponse struct {
	ProjectName string        `json:"projectName"`
	Stats       *ProjectStats `json:"stats"`
}

type ListProjectsRequest struct{}

type ListProjectsResponse struct {
	Projects []*ProjectSummary `json:"projects"`
}
