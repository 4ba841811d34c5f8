package v1

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is wrapped by every request validation error.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func library(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "personal", "public", "project":
		return nil
	}
	return invalid("libraryType must be personal, public or project, got %q", value)
}

func (r *ListModelsRequest) Validate() error {
	return library(r.Library)
}

func (r *GetModelRequest) Validate() error {
	if err := library(r.Library); err != nil {
		return err
	}
	return required("id", r.Id)
}

func (r *CreateModelRequest) Validate() error {
	if err := library(r.Library); err != nil {
		return err
	}
	if r.Draft == nil {
		return invalid("draft is required")
	}
	return nil
}

func (r *UpdateModelRequest) Validate() error {
	if err := library(r.Library); err != nil {
		return err
	}
	if err := required("id", r.Id); err != nil {
		return err
	}
	if r.Patch == nil {
		return invalid("patch is required")
	}
	return nil
}

func (r *DeleteModelRequest) Validate() error {
	if err := library(r.Library); err != nil {
		return err
	}
	return required("id", r.Id)
}

func (r *SetPublicRequest) Validate() error {
	return required("id", r.Id)
}

func (r *ResyncRequest) Validate() error {
	return nil
}

func (r *StartPublishRequest) Validate() error {
	return required("modelId", r.ModelId)
}

func (r *ChooseWorkflowRequest) Validate() error {
	if err := required("attemptId", r.AttemptId); err != nil {
		return err
	}
	return required("workflowId", r.WorkflowId)
}

// Validate leaves the reviewer count to the workflow so that an empty
// selection is reported as such.
func (r *ChooseReviewersRequest) Validate() error {
	return required("attemptId", r.AttemptId)
}

func (r *RunCheckRequest) Validate() error {
	return required("attemptId", r.AttemptId)
}

func (r *ConfirmPublishRequest) Validate() error {
	return required("attemptId", r.AttemptId)
}

func (r *CancelPublishRequest) Validate() error {
	return required("attemptId", r.AttemptId)
}

func (r *GoBackRequest) Validate() error {
	return required("attemptId", r.AttemptId)
}

func (r *GetAttemptRequest) Validate() error {
	return required("attemptId", r.AttemptId)
}

func (r *ReviewDecisionRequest) Validate() error {
	if err := required("attemptId", r.AttemptId); err != nil {
		return err
	}
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		return invalid("decision must be %s or %s, got %q", DecisionApprove, DecisionReject, r.Decision)
	}
	return nil
}

func (r *ListWorkflowsRequest) Validate() error {
	return nil
}

func (r *ListReviewersRequest) Validate() error {
	return nil
}

func (r *ProjectStatsRequest) Validate() error {
	return required("projectName", r.ProjectName)
}

func (r *ListProjectsRequest) Validate() error {
	return nil
}
