// Package v1 holds the wire types of the modelhub API, shared by the grpc
// service, the http gateway and the client.
package v1

import "time"

type Dependencies struct {
	Upstream   []string `json:"upstream"`
	Downstream []string `json:"downstream"`
}

type ProjectApplication struct {
	Id           string `json:"id"`
	ProjectName  string `json:"projectName"`
	Status       string `json:"status"`
	UseCount     int    `json:"useCount"`
	LastUsedDate string `json:"lastUsedDate"`
	Team         string `json:"team"`
	Description  string `json:"description"`
}

type Model struct {
	Id                  string               `json:"id"`
	OriginId            string               `json:"originId,omitempty"`
	IsMirror            bool                 `json:"isMirror"`
	Library             string               `json:"libraryType"`
	Status              string               `json:"status"`
	IsPublic            bool                 `json:"isPublic"`
	Name                string               `json:"name"`
	Type                string               `json:"type"`
	Description         string               `json:"description"`
	Version             string               `json:"version"`
	Project             string               `json:"project"`
	Tags                []string             `json:"tags"`
	RflpCategory        string               `json:"rflpCategory"`
	Dependencies        Dependencies         `json:"dependencies"`
	Uploader            string               `json:"uploader"`
	UploadTime          time.Time            `json:"uploadTime"`
	Rating              float64              `json:"rating"`
	Downloads           int64                `json:"downloads"`
	ProjectApplications []ProjectApplication `json:"projectApplications"`
}

// ModelDraft carries the user supplied fields of a new model.
type ModelDraft struct {
	Name                string               `json:"name"`
	Type                string               `json:"type"`
	Description         string               `json:"description"`
	Version             string               `json:"version"`
	Project             string               `json:"project"`
	Tags                []string             `json:"tags"`
	RflpCategory        string               `json:"rflpCategory"`
	Dependencies        Dependencies         `json:"dependencies"`
	Uploader            string               `json:"uploader"`
	Rating              float64              `json:"rating"`
	Downloads           int64                `json:"downloads"`
	ProjectApplications []ProjectApplication `json:"projectApplications"`
}

// ModelPatch holds a partial content edit. Nil fields are left unchanged.
type ModelPatch struct {
	Name                *string               `json:"name,omitempty"`
	Type                *string               `json:"type,omitempty"`
	Description         *string               `json:"description,omitempty"`
	Version             *string               `json:"version,omitempty"`
	Project             *string               `json:"project,omitempty"`
	Tags                *[]string             `json:"tags,omitempty"`
	RflpCategory        *string               `json:"rflpCategory,omitempty"`
	Dependencies        *Dependencies         `json:"dependencies,omitempty"`
	Rating              *float64              `json:"rating,omitempty"`
	ProjectApplications *[]ProjectApplication `json:"projectApplications,omitempty"`
}

type CheckItem struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Score   int    `json:"score"`
	Message string `json:"message,omitempty"`
}

type CheckResult struct {
	Score  int         `json:"score"`
	Passed bool        `json:"passed"`
	Items  []CheckItem `json:"items"`
}

type PublishAttempt struct {
	Id          string       `json:"id"`
	ModelId     string       `json:"modelId"`
	WorkflowId  string       `json:"workflowId,omitempty"`
	ReviewerIds []string     `json:"reviewerIds,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Stage       string       `json:"stage"`
	Progress    int          `json:"progress"`
	Check       *CheckResult `json:"check,omitempty"`
	Outcome     string       `json:"outcome,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type WorkflowStage struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	ExpectedDuration  string `json:"expectedDuration"`
	RequiredReviewers int    `json:"requiredReviewers"`
}

type Workflow struct {
	Id     string          `json:"id"`
	Name   string          `json:"name"`
	Stages []WorkflowStage `json:"stages"`
}

type Reviewer struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Expertise []string `json:"expertise"`
}

type ProjectStats struct {
	ModelCount    int    `json:"modelCount"`
	TotalUseCount int    `json:"totalUseCount"`
	Status        string `json:"status"`
	Team          string `json:"team"`
	LastUsedDate  string `json:"lastUsedDate"`
	Description   string `json:"description"`
}

type ProjectSummary struct {
	Name     string       `json:"name"`
	Stats    ProjectStats `json:"stats"`
	ModelIds []string     `json:"modelIds"`
}
