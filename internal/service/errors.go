package service

import (
	"errors"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/emrgen/modelhub/internal/store"
	"github.com/emrgen/modelhub/internal/workflow"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrMissingName is returned when a model has an empty name.
	ErrMissingName = errors.New("model name is required")
	// ErrInvalidVersion is returned when a model version is not a semantic version.
	ErrInvalidVersion = errors.New("model version must be a semantic version")
	// ErrInvalidDecision is returned when a review decision is neither approve nor reject.
	ErrInvalidDecision = errors.New("review decision must be approve or reject")
	// ErrReservedID is returned when a project model id collides with the mirror id space.
	ErrReservedID = errors.New("model id is reserved for project mirrors")
	// ErrAlreadyPublished is returned when publishing a model that is already published.
	ErrAlreadyPublished = errors.New("model is already published")
	// ErrNotUnderReview is returned when a review decision targets a model that is not under review.
	ErrNotUnderReview = errors.New("model is not under review")
	// ErrApplicationsOwnedByOrigin is returned when a project mirror's applications are
	// patched while its origin carries its own list.
	ErrApplicationsOwnedByOrigin = errors.New("project applications are set on the origin model")
	// ErrMirrorReadOnly is returned when a mirror is edited, deleted or created directly.
	ErrMirrorReadOnly = errors.New("mirrors are maintained by the synchronizer and cannot be changed directly")
)

var (
	validationErrors = []error{
		v1.ErrInvalidArgument,
		model.ErrInvalidLibrary,
		ErrMissingName,
		ErrInvalidVersion,
		ErrInvalidDecision,
		ErrReservedID,
		workflow.ErrNoReviewers,
		workflow.ErrUnknownWorkflow,
		workflow.ErrUnknownReviewer,
	}
	conflictErrors = []error{
		ErrAlreadyPublished,
		ErrNotUnderReview,
		ErrApplicationsOwnedByOrigin,
		store.ErrModelExists,
		workflow.ErrAttemptInFlight,
		workflow.ErrInvalidTransition,
		workflow.ErrAttemptClosed,
		workflow.ErrNotSubmitted,
		workflow.ErrCheckFailed,
	}
	notFoundErrors = []error{
		store.ErrModelNotFound,
		workflow.ErrAttemptNotFound,
	}
)

// Code classifies err into the grpc code reported to callers.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}

	switch {
	case isAny(err, validationErrors):
		return codes.InvalidArgument
	case isAny(err, conflictErrors):
		return codes.FailedPrecondition
	case isAny(err, notFoundErrors):
		return codes.NotFound
	case errors.Is(err, ErrMirrorReadOnly):
		return codes.PermissionDenied
	}

	return codes.Internal
}

// Status converts err into a grpc status error.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(Code(err), err.Error())
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
