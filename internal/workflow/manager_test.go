package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emrgen/modelhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() *model.Model {
	return model.NewOrigin("m1", model.LibraryPersonal, model.Content{
		Name:        "Flight Control",
		Type:        "SysML",
		Description: "flight control architecture",
		Version:     "1.2.0",
		Dependencies: model.Dependencies{
			Upstream:   []string{"m2"},
			Downstream: []string{"m3"},
		},
	})
}

func readyAttempt(t *testing.T, m *Manager, modelID string) *Attempt {
	attempt, err := m.Start(modelID)
	require.NoError(t, err)
	_, err = m.ChooseWorkflow(attempt.ID, "standard")
	require.NoError(t, err)
	attempt, err = m.ChooseReviewers(attempt.ID, []string{"rev-001"}, "please review")
	require.NoError(t, err)
	return attempt
}

func TestManager_HappyPath(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)

	attempt, err := m.Start("m1")
	require.NoError(t, err)
	assert.Equal(t, StageChoosingWorkflow, attempt.Stage)

	attempt, err = m.ChooseWorkflow(attempt.ID, "fast-track")
	require.NoError(t, err)
	assert.Equal(t, StageChoosingReviewers, attempt.Stage)
	assert.Equal(t, "fast-track", attempt.WorkflowID)

	attempt, err = m.ChooseReviewers(attempt.ID, []string{"rev-002", "rev-003", "rev-002"}, "notes")
	require.NoError(t, err)
	assert.Equal(t, StageRunningCheck, attempt.Stage)
	assert.Equal(t, []string{"rev-002", "rev-003"}, attempt.ReviewerIDs)

	result, err := m.RunCheck(context.TODO(), attempt.ID, validModel())
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 95, result.Score)
	assert.Len(t, result.Items, 5)

	got, err := m.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageReadyToConfirm, got.Stage)
	assert.Equal(t, 100, got.Progress)

	committed := false
	got, err = m.Confirm(attempt.ID, func(a *Attempt) error {
		committed = true
		assert.Equal(t, "m1", a.ModelID)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, StageCompleted, got.Stage)
	assert.Equal(t, OutcomeSubmitted, got.Outcome)

	_, ok := m.ActiveFor("m1")
	assert.False(t, ok)
}

func TestManager_RejectsSecondAttempt(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)

	first, err := m.Start("m1")
	require.NoError(t, err)

	_, err = m.Start("m1")
	assert.ErrorIs(t, err, ErrAttemptInFlight)

	_, err = m.Start("m2")
	assert.NoError(t, err)

	_, err = m.Cancel(first.ID)
	require.NoError(t, err)

	_, err = m.Start("m1")
	assert.NoError(t, err)
}

func TestManager_ChooseErrors(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)

	attempt, err := m.Start("m1")
	require.NoError(t, err)

	_, err = m.ChooseReviewers(attempt.ID, []string{"rev-001"}, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.ChooseWorkflow(attempt.ID, "nope")
	assert.ErrorIs(t, err, ErrUnknownWorkflow)

	_, err = m.ChooseWorkflow(attempt.ID, "standard")
	require.NoError(t, err)

	_, err = m.ChooseReviewers(attempt.ID, nil, "")
	assert.ErrorIs(t, err, ErrNoReviewers)

	_, err = m.ChooseReviewers(attempt.ID, []string{"rev-001", "rev-999"}, "")
	assert.ErrorIs(t, err, ErrUnknownReviewer)

	got, err := m.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageChoosingReviewers, got.Stage)
	assert.Empty(t, got.ReviewerIDs)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestManager_Back(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)

	attempt, err := m.Start("m1")
	require.NoError(t, err)

	_, err = m.Back(attempt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.ChooseWorkflow(attempt.ID, "standard")
	require.NoError(t, err)

	got, err := m.Back(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageChoosingWorkflow, got.Stage)

	attempt = func() *Attempt {
		_, err := m.ChooseWorkflow(attempt.ID, "standard")
		require.NoError(t, err)
		a, err := m.ChooseReviewers(attempt.ID, []string{"rev-001"}, "")
		require.NoError(t, err)
		return a
	}()

	_, err = m.Back(attempt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.RunCheck(context.TODO(), attempt.ID, validModel())
	require.NoError(t, err)

	got, err = m.Back(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageChoosingReviewers, got.Stage)
	assert.Nil(t, got.Check)
	assert.Zero(t, got.Progress)
}

func TestManager_ConfirmRequiresReadyStage(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)
	attempt := readyAttempt(t, m, "m1")

	_, err := m.Confirm(attempt.ID, func(*Attempt) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestManager_ConfirmCommitFailureKeepsStage(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)
	attempt := readyAttempt(t, m, "m1")

	_, err := m.RunCheck(context.TODO(), attempt.ID, validModel())
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Confirm(attempt.ID, func(*Attempt) error { return boom })
	assert.ErrorIs(t, err, boom)

	got, err := m.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageReadyToConfirm, got.Stage)
	_, ok := m.ActiveFor("m1")
	assert.True(t, ok)
}

func TestManager_CheckFailureClosesAttempt(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)
	attempt := readyAttempt(t, m, "m1")

	broken := validModel()
	broken.Version = "one"

	result, err := m.RunCheck(context.TODO(), attempt.ID, broken)
	assert.ErrorIs(t, err, ErrCheckFailed)
	require.NotNil(t, result)
	assert.False(t, result.Passed)
	assert.False(t, result.Items[1].Passed)
	assert.NotEmpty(t, result.Items[1].Message)

	got, err := m.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageClosed, got.Stage)
	assert.Equal(t, OutcomeCheckFailed, got.Outcome)

	_, err = m.Confirm(attempt.ID, func(*Attempt) error { return nil })
	assert.ErrorIs(t, err, ErrAttemptClosed)

	_, err = m.Start("m1")
	assert.NoError(t, err)
}

func TestManager_ProgressSteps(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 20*time.Millisecond)
	attempt := readyAttempt(t, m, "m1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := m.RunCheck(context.TODO(), attempt.ID, validModel())
		assert.NoError(t, err)
	}()

	seen := map[int]bool{}
	for {
		got, err := m.Get(attempt.ID)
		require.NoError(t, err)
		seen[got.Progress] = true
		if got.Stage != StageRunningCheck {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	<-done

	for progress := range seen {
		assert.Zero(t, progress%20, "progress %d is not a step", progress)
	}
	assert.True(t, seen[100])
}

func TestManager_CancelStopsRunningCheck(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), time.Hour)
	attempt := readyAttempt(t, m, "m1")

	errs := make(chan error, 1)
	go func() {
		_, err := m.RunCheck(context.TODO(), attempt.ID, validModel())
		errs <- err
	}()

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.attempts[attempt.ID].cancel != nil
	}, time.Second, time.Millisecond)

	got, err := m.Cancel(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageClosed, got.Stage)
	assert.Equal(t, OutcomeCancelled, got.Outcome)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrAttemptClosed)
	case <-time.After(time.Second):
		t.Fatal("check did not stop")
	}

	_, err = m.Cancel(attempt.ID)
	assert.ErrorIs(t, err, ErrAttemptClosed)
}

func TestManager_CallerCancellationAllowsRerun(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), time.Hour)
	attempt := readyAttempt(t, m, "m1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.RunCheck(ctx, attempt.ID, validModel())
	assert.ErrorIs(t, err, context.Canceled)

	got, err := m.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageRunningCheck, got.Stage)
	assert.Zero(t, got.Progress)

	m.step = 0
	_, err = m.RunCheck(context.TODO(), attempt.ID, validModel())
	assert.NoError(t, err)
}

func TestManager_ConcurrentRunCheck(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 5*time.Millisecond)
	attempt := readyAttempt(t, m, "m1")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.RunCheck(context.TODO(), attempt.ID, validModel())
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInvalidTransition)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestManager_ConcurrentCancel(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 5*time.Millisecond)
	attempt := readyAttempt(t, m, "m1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = m.RunCheck(context.TODO(), attempt.ID, validModel())
	}()

	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Cancel(attempt.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrAttemptClosed) || errors.Is(err, ErrInvalidTransition), err)
	}
	assert.Equal(t, 1, succeeded)

	got, err := m.Get(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, StageClosed, got.Stage)
	assert.Equal(t, OutcomeCancelled, got.Outcome)
	_, ok := m.ActiveFor("m1")
	assert.False(t, ok)
}

func TestManager_Decide(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)
	attempt := readyAttempt(t, m, "m1")

	_, err := m.Decide(attempt.ID, true, func(*Attempt) error { return nil })
	assert.ErrorIs(t, err, ErrNotSubmitted)

	_, err = m.RunCheck(context.TODO(), attempt.ID, validModel())
	require.NoError(t, err)
	_, err = m.Confirm(attempt.ID, func(*Attempt) error { return nil })
	require.NoError(t, err)

	got, err := m.Decide(attempt.ID, false, func(*Attempt) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, got.Outcome)

	_, err = m.Decide(attempt.ID, true, func(*Attempt) error { return nil })
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestManager_Expire(t *testing.T) {
	m := NewManager(DefaultCatalog(), DefaultChecker(), 0)
	now := time.Now()
	m.now = func() time.Time { return now }

	idle, err := m.Start("m1")
	require.NoError(t, err)

	submitted := readyAttempt(t, m, "m2")
	_, err = m.RunCheck(context.TODO(), submitted.ID, validModel())
	require.NoError(t, err)
	_, err = m.Confirm(submitted.ID, func(*Attempt) error { return nil })
	require.NoError(t, err)

	now = now.Add(time.Hour)
	fresh, err := m.Start("m3")
	require.NoError(t, err)

	expired := m.Expire(30 * time.Minute)
	require.Len(t, expired, 1)
	assert.Equal(t, idle.ID, expired[0].ID)
	assert.Equal(t, OutcomeExpired, expired[0].Outcome)

	_, err = m.Start("m1")
	assert.NoError(t, err)

	got, err := m.Get(submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, got.Outcome)

	got, err = m.Get(fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.Active())

	// closed attempts are forgotten on the next pass
	now = now.Add(time.Hour)
	m.Expire(30 * time.Minute)
	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestDefaultChecker(t *testing.T) {
	checker := DefaultChecker()

	tests := []struct {
		name   string
		mutate func(m *model.Model)
		failed string
	}{
		{name: "valid"},
		{name: "missing description", mutate: func(m *model.Model) { m.Description = " " }, failed: "metadata_completeness"},
		{name: "bad version", mutate: func(m *model.Model) { m.Version = "latest" }, failed: "file_validity"},
		{name: "self dependency", mutate: func(m *model.Model) { m.Dependencies.Upstream = []string{"m1"} }, failed: "dependency_consistency"},
		{name: "duplicate dependency", mutate: func(m *model.Model) { m.Dependencies.Downstream = []string{"m3", "m3"} }, failed: "dependency_consistency"},
		{name: "bad name", mutate: func(m *model.Model) { m.Name = "-flight" }, failed: "naming_convention"},
		{name: "cyclic interface", mutate: func(m *model.Model) { m.Dependencies.Downstream = []string{"m2"} }, failed: "interface_consistency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			if tt.mutate != nil {
				tt.mutate(m)
			}

			items := make([]CheckItem, 0, checker.Len())
			for i := 0; i < checker.Len(); i++ {
				items = append(items, checker.run(i, m))
			}
			result := summarize(items)

			if tt.failed == "" {
				assert.True(t, result.Passed)
				assert.Equal(t, 95, result.Score)
				return
			}

			assert.False(t, result.Passed)
			for _, item := range result.Items {
				assert.Equal(t, item.Name != tt.failed, item.Passed, item.Name)
			}
		})
	}
}
