// Package queue delivers library notifications to collaborators.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/modelhub/internal/model"
)

type Kind string

const (
	KindModelUploaded     Kind = "model_uploaded"
	KindModelUpdated      Kind = "model_updated"
	KindModelDeleted      Kind = "model_deleted"
	KindVisibilityChanged Kind = "visibility_changed"
	KindModelPublished    Kind = "model_published"
	KindReviewFailed      Kind = "review_failed"
	KindReviewDecided     Kind = "review_decided"
)

// Notification is emitted after a committed library mutation.
type Notification struct {
	Kind      Kind              `json:"kind"`
	ModelID   string            `json:"modelId"`
	Library   model.LibraryType `json:"library,omitempty"`
	Status    model.Status      `json:"status,omitempty"`
	IsPublic  bool              `json:"isPublic"`
	AttemptID string            `json:"attemptId,omitempty"`
	Message   string            `json:"message,omitempty"`
	Time      time.Time         `json:"time"`
}

// Notifier publishes notifications. Delivery is best effort: callers log
// failures and never roll back the mutation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

var (
	_ Notifier = NopNotifier{}
	_ Notifier = MultiNotifier{}
)

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) error {
	return nil
}

// MultiNotifier fans a notification out to every notifier.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
