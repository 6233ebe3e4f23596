package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hyprland-community/Hyprmaid/internal/errors"
	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// immediate fires the next pass right away
type immediate struct{}

func (immediate) Next(t time.Time) time.Time { return t }

func newTestLoop(w *fakeWorld, opts ...Option) *Loop {
	return NewLoop(w, w, newTestReconciler(w), immediate{}, logger.Nop(), opts...)
}

func TestLoopDefaultPolicyAbortsOnError(t *testing.T) {
	w := newFakeWorld("demo")
	boom := errors.New("missing access")
	w.failOnce("channel:announcement", boom)

	loop := newTestLoop(w)

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	status := loop.Status()
	assert.Equal(t, StateAborted, status.State)
	assert.Equal(t, 1, status.Passes)
	require.NotNil(t, status.LastPass)
	assert.Equal(t, err.Error(), status.LastPass.Error)
	assert.NotEmpty(t, status.LastPass.ID)
}

func TestLoopDefaultPolicyContinuesAfterSuccess(t *testing.T) {
	w := newFakeWorld("demo")
	loop := newTestLoop(w)

	// second pass fails listing groups; the first must have succeeded
	var passes int
	loop.policy = func(report models.PassReport, err error) Decision {
		passes++
		if passes == 1 {
			w.groupErr = errors.New("unknown guild")
		}
		return DefaultPolicy(report, err)
	}

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing channel groups")
	assert.Equal(t, 2, passes)
	assert.Equal(t, 2, loop.Status().Passes)
}

func TestLoopCustomPolicyTerminates(t *testing.T) {
	w := newFakeWorld("a", "b")

	var reports []models.PassReport
	policy := func(report models.PassReport, err error) Decision {
		reports = append(reports, report)
		if len(reports) == 3 {
			return Terminate
		}
		return Continue
	}

	loop := newTestLoop(w, WithPolicy(policy))

	require.NoError(t, loop.Run(context.Background()))
	require.Len(t, reports, 3)

	assert.Equal(t, []string{"a", "b"}, reports[0].Provisioned)
	assert.Equal(t, []string{"a", "b"}, reports[1].Existing)
	assert.Empty(t, reports[2].Provisioned)
	assert.Equal(t, StateAborted, loop.Status().State)
}

func TestLoopPolicyCanContinuePastFailures(t *testing.T) {
	w := newFakeWorld("demo")
	w.failOnce("channel:demo", errors.New("rate limited"))

	var errs []error
	policy := func(_ models.PassReport, err error) Decision {
		errs = append(errs, err)
		if len(errs) == 2 {
			return Terminate
		}
		return Continue
	}

	loop := newTestLoop(w, WithPolicy(policy))

	require.NoError(t, loop.Run(context.Background()))
	require.Len(t, errs, 2)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, w.groupsNamed("demo"), 1)
}

func TestLoopCancellationReturnsNil(t *testing.T) {
	w := newFakeWorld("demo")
	ctx, cancel := context.WithCancel(context.Background())

	loop := NewLoop(w, w, newTestReconciler(w), everyHour{}, logger.Nop())

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return loop.Status().Passes == 1 && loop.Status().State == StateIdle
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Equal(t, StateIdle, loop.Status().State)
}

type everyHour struct{}

func (everyHour) Next(t time.Time) time.Time { return t.Add(time.Hour) }

func TestLoopRunOnce(t *testing.T) {
	w := newFakeWorld("demo", ".github")
	loop := newTestLoop(w)

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{start, start.Add(1500 * time.Millisecond)}
	loop.now = func() time.Time {
		now := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return now
	}
	loop.reconciler = NewReconciler(loop.reconciler.provisioner, NewBlacklist(".github"), logger.Nop())

	report, err := loop.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, start.Unix(), report.StartedAt)
	assert.Equal(t, int64(1500), report.DurationMS)
	assert.Equal(t, 2, report.Repositories)
	assert.Equal(t, []string{"demo"}, report.Provisioned)
	assert.Equal(t, []string{".github"}, report.Blacklisted)
	assert.Empty(t, report.Error)

	status := loop.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Equal(t, 1, status.Passes)
}

func TestLoopRunOnceFailure(t *testing.T) {
	w := newFakeWorld("demo")
	w.groupErr = apperrors.Platform(apperrors.ErrCodeNotFound, "guild", errors.New("unknown guild"))
	loop := newTestLoop(w)

	report, err := loop.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, err.Error(), report.Error)
	assert.Equal(t, "platform", report.ErrorKind)
	assert.Equal(t, "NOT_FOUND", report.ErrorCode)
	assert.Equal(t, StateAborted, loop.Status().State)
	assert.Empty(t, w.calls)
}

func TestLoopStatusIsSnapshot(t *testing.T) {
	w := newFakeWorld("demo")
	loop := newTestLoop(w)

	status := loop.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Zero(t, status.Passes)
	assert.Nil(t, status.LastPass)

	_, err := loop.RunOnce(context.Background())
	require.NoError(t, err)

	snapshot := loop.Status()
	require.NotNil(t, snapshot.LastPass)
	snapshot.LastPass.Provisioned[0] = "tampered"

	assert.Equal(t, []string{"demo"}, loop.Status().LastPass.Provisioned)
}

func TestLoopWithClock(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loop := newTestLoop(newFakeWorld(), WithClock(func() time.Time { return fixed }))

	report, err := loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed.Unix(), report.StartedAt)
	assert.Zero(t, report.DurationMS)
}
