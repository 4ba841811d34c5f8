// Package workflow implements the publish attempt state machine.
//
// An attempt moves forward through
//
//	ChoosingWorkflow -> ChoosingReviewers -> RunningCheck -> ReadyToConfirm -> Completed
//
// and may step back from ChoosingReviewers and ReadyToConfirm. Unfinished
// attempts can be cancelled without touching the library. The Manager never
// writes to the store itself: Confirm and Decide take a commit callback and
// only advance when it succeeds.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/modelhub/internal/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Stage int

const (
	StageChoosingWorkflow Stage = iota
	StageChoosingReviewers
	StageRunningCheck
	StageReadyToConfirm
	StageCompleted
	// StageClosed ends cancelled, expired and failed attempts.
	StageClosed
)

var stageNames = map[Stage]string{
	StageChoosingWorkflow:  "choosing_workflow",
	StageChoosingReviewers: "choosing_reviewers",
	StageRunningCheck:      "running_check",
	StageReadyToConfirm:    "ready_to_confirm",
	StageCompleted:         "completed",
	StageClosed:            "closed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeSubmitted   Outcome = "submitted"
	OutcomeCancelled   Outcome = "cancelled"
	OutcomeExpired     Outcome = "expired"
	OutcomeCheckFailed Outcome = "check_failed"
	OutcomeApproved    Outcome = "approved"
	OutcomeRejected    Outcome = "rejected"
)

// Attempt is one run of the publish workflow for a model.
type Attempt struct {
	ID          string
	ModelID     string
	WorkflowID  string
	ReviewerIDs []string
	Notes       string
	Stage       Stage
	Progress    int
	Check       *CheckResult
	Outcome     Outcome
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active reports whether the attempt still blocks new attempts on its model.
func (a *Attempt) Active() bool {
	return a.Stage < StageCompleted
}

func (a *Attempt) clone() *Attempt {
	out := *a
	out.ReviewerIDs = append([]string(nil), a.ReviewerIDs...)
	if a.Check != nil {
		check := *a.Check
		check.Items = append([]CheckItem(nil), a.Check.Items...)
		out.Check = &check
	}
	return &out
}

type entry struct {
	attempt *Attempt
	// set while the automated check runs
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager keeps the in-flight publish attempts.
type Manager struct {
	mu       sync.Mutex
	catalog  *Catalog
	checker  *Checker
	step     time.Duration
	attempts map[string]*entry
	// model id -> attempt id of the active attempt
	active map[string]string
	now    func() time.Time
}

// NewManager creates a manager whose automated check waits step between phases.
func NewManager(catalog *Catalog, checker *Checker, step time.Duration) *Manager {
	return &Manager{
		catalog:  catalog,
		checker:  checker,
		step:     step,
		attempts: make(map[string]*entry),
		active:   make(map[string]string),
		now:      time.Now,
	}
}

func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// Start opens an attempt for a model. Only one attempt per model may be active.
func (m *Manager) Start(modelID string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.active[modelID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAttemptInFlight, id)
	}

	now := m.now()
	attempt := &Attempt{
		ID:        uuid.NewString(),
		ModelID:   modelID,
		Stage:     StageChoosingWorkflow,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.attempts[attempt.ID] = &entry{attempt: attempt}
	m.active[modelID] = attempt.ID

	logrus.Infof("publish attempt %s started for model %s", attempt.ID, modelID)

	return attempt.clone(), nil
}

func (m *Manager) Get(id string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}

	return e.attempt.clone(), nil
}

// ActiveFor returns the active attempt of a model, if any.
func (m *Manager) ActiveFor(modelID string) (*Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.active[modelID]
	if !ok {
		return nil, false
	}

	return m.attempts[id].attempt.clone(), true
}

func (m *Manager) ChooseWorkflow(id, workflowID string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.open(id)
	if err != nil {
		return nil, err
	}
	if e.attempt.Stage != StageChoosingWorkflow {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, e.attempt.Stage)
	}
	if _, ok := m.catalog.Definition(workflowID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorkflow, workflowID)
	}

	e.attempt.WorkflowID = workflowID
	m.moveTo(e, StageChoosingReviewers)

	return e.attempt.clone(), nil
}

// ChooseReviewers records the reviewers and advances to the automated check.
func (m *Manager) ChooseReviewers(id string, reviewerIDs []string, notes string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.open(id)
	if err != nil {
		return nil, err
	}
	if e.attempt.Stage != StageChoosingReviewers {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, e.attempt.Stage)
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	reviewers := make([]string, 0, len(reviewerIDs))
	for _, reviewerID := range reviewerIDs {
		if !seen.Add(reviewerID) {
			continue
		}
		if _, ok := m.catalog.Reviewer(reviewerID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownReviewer, reviewerID)
		}
		reviewers = append(reviewers, reviewerID)
	}
	if len(reviewers) == 0 {
		return nil, ErrNoReviewers
	}

	e.attempt.ReviewerIDs = reviewers
	e.attempt.Notes = notes
	e.attempt.Progress = 0
	e.attempt.Check = nil
	m.moveTo(e, StageRunningCheck)

	return e.attempt.clone(), nil
}

// Back steps from ChoosingReviewers to ChoosingWorkflow, or from
// ReadyToConfirm to ChoosingReviewers dropping the check result.
func (m *Manager) Back(id string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.open(id)
	if err != nil {
		return nil, err
	}

	switch e.attempt.Stage {
	case StageChoosingReviewers:
		m.moveTo(e, StageChoosingWorkflow)
	case StageReadyToConfirm:
		e.attempt.Check = nil
		e.attempt.Progress = 0
		m.moveTo(e, StageChoosingReviewers)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, e.attempt.Stage)
	}

	return e.attempt.clone(), nil
}

// RunCheck runs the automated check against target, advancing the progress in
// discrete steps. It blocks until the check ends. Cancelling ctx aborts the
// run and leaves the attempt ready for another run; Cancel closes it.
func (m *Manager) RunCheck(ctx context.Context, id string, target *model.Model) (*CheckResult, error) {
	m.mu.Lock()
	e, err := m.open(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if e.attempt.Stage != StageRunningCheck || e.cancel != nil {
		stage := e.attempt.Stage
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, stage)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.attempt.Progress = 0
	m.mu.Unlock()

	defer close(done)
	defer cancel()

	total := m.checker.Len()
	items := make([]CheckItem, 0, total)
	for i := 0; i < total; i++ {
		if err := m.wait(runCtx); err != nil {
			return nil, m.abortCheck(e, err)
		}

		items = append(items, m.checker.run(i, target))

		m.mu.Lock()
		if e.attempt.Stage != StageRunningCheck {
			e.cancel = nil
			m.mu.Unlock()
			return nil, ErrAttemptClosed
		}
		e.attempt.Progress = (i + 1) * 100 / total
		e.attempt.UpdatedAt = m.now()
		m.mu.Unlock()
	}

	result := summarize(items)

	m.mu.Lock()
	defer m.mu.Unlock()

	e.cancel = nil
	if e.attempt.Stage != StageRunningCheck {
		return nil, ErrAttemptClosed
	}

	e.attempt.Check = result
	e.attempt.Progress = 100
	if !result.Passed {
		e.attempt.Outcome = OutcomeCheckFailed
		m.close(e)
		logrus.Warnf("publish attempt %s failed the automated check with score %d", id, result.Score)
		return e.attempt.clone().Check, ErrCheckFailed
	}

	m.moveTo(e, StageReadyToConfirm)
	logrus.Infof("publish attempt %s passed the automated check with score %d", id, result.Score)

	return e.attempt.clone().Check, nil
}

// Confirm completes the attempt once commit succeeded.
func (m *Manager) Confirm(id string, commit func(a *Attempt) error) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.open(id)
	if err != nil {
		return nil, err
	}
	if e.attempt.Stage != StageReadyToConfirm {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, e.attempt.Stage)
	}

	if err := commit(e.attempt.clone()); err != nil {
		return nil, err
	}

	e.attempt.Outcome = OutcomeSubmitted
	m.moveTo(e, StageCompleted)
	delete(m.active, e.attempt.ModelID)

	return e.attempt.clone(), nil
}

// Cancel abandons an unfinished attempt. A running check is stopped before
// Cancel returns.
func (m *Manager) Cancel(id string) (*Attempt, error) {
	m.mu.Lock()
	e, err := m.open(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if !e.attempt.Active() {
		stage := e.attempt.Stage
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, stage)
	}

	e.attempt.Outcome = OutcomeCancelled
	m.close(e)
	cancel, done := e.cancel, e.done
	snapshot := e.attempt.clone()
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	logrus.Infof("publish attempt %s cancelled", id)

	return snapshot, nil
}

// Decide records the review decision of a submitted attempt once commit succeeded.
func (m *Manager) Decide(id string, approve bool, commit func(a *Attempt) error) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if e.attempt.Stage != StageCompleted || e.attempt.Outcome != OutcomeSubmitted {
		return nil, ErrNotSubmitted
	}

	if err := commit(e.attempt.clone()); err != nil {
		return nil, err
	}

	if approve {
		e.attempt.Outcome = OutcomeApproved
	} else {
		e.attempt.Outcome = OutcomeRejected
	}
	e.attempt.UpdatedAt = m.now()

	return e.attempt.clone(), nil
}

// Expire closes active attempts idle for longer than maxIdle and forgets
// finished attempts of the same age. Submitted attempts are kept until decided.
func (m *Manager) Expire(maxIdle time.Duration) []*Attempt {
	m.mu.Lock()

	deadline := m.now().Add(-maxIdle)
	var expired []*Attempt
	var cancels []context.CancelFunc
	for id, e := range m.attempts {
		if !e.attempt.UpdatedAt.Before(deadline) {
			continue
		}

		switch {
		case e.attempt.Active():
			e.attempt.Outcome = OutcomeExpired
			m.close(e)
			if e.cancel != nil {
				cancels = append(cancels, e.cancel)
			}
			expired = append(expired, e.attempt.clone())
		case e.attempt.Outcome == OutcomeSubmitted:
		default:
			delete(m.attempts, id)
		}
	}
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	return expired
}

// caller holds the lock
func (m *Manager) open(id string) (*entry, error) {
	e, ok := m.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if e.attempt.Stage == StageClosed {
		return nil, fmt.Errorf("%w: %s", ErrAttemptClosed, e.attempt.Outcome)
	}

	return e, nil
}

// caller holds the lock
func (m *Manager) moveTo(e *entry, stage Stage) {
	logrus.Debugf("publish attempt %s: %s -> %s", e.attempt.ID, e.attempt.Stage, stage)
	e.attempt.Stage = stage
	e.attempt.UpdatedAt = m.now()
}

// caller holds the lock
func (m *Manager) close(e *entry) {
	m.moveTo(e, StageClosed)
	if m.active[e.attempt.ModelID] == e.attempt.ID {
		delete(m.active, e.attempt.ModelID)
	}
}

func (m *Manager) abortCheck(e *entry, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.cancel = nil
	if e.attempt.Stage != StageRunningCheck {
		return ErrAttemptClosed
	}

	// the caller went away, the check can be run again
	e.attempt.Progress = 0
	return cause
}

func (m *Manager) wait(ctx context.Context) error {
	if m.step <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(m.step)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
