package workflow

import "errors"

var (
	// ErrAttemptNotFound is returned when a publish attempt id is unknown.
	ErrAttemptNotFound = errors.New("publish attempt not found")
	// ErrAttemptInFlight is returned when a model already has an unfinished publish attempt.
	ErrAttemptInFlight = errors.New("model already has a publish attempt in flight")
	// ErrInvalidTransition is returned when an operation does not fit the current stage.
	ErrInvalidTransition = errors.New("operation not allowed in the current stage")
	// ErrAttemptClosed is returned when the attempt was cancelled, expired or failed.
	ErrAttemptClosed = errors.New("publish attempt is closed")
	ErrUnknownWorkflow = errors.New("unknown review workflow")
	ErrNoReviewers     = errors.New("at least one reviewer must be selected")
	ErrUnknownReviewer = errors.New("unknown reviewer")
	// ErrCheckFailed is returned when an automated check item did not pass.
	ErrCheckFailed = errors.New("automated check failed")
	// ErrNotSubmitted is returned when a review decision targets an attempt that was not submitted.
	ErrNotSubmitted = errors.New("publish attempt is not awaiting a review decision")
)
