package reconcile

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	apperrors "github.com/hyprland-community/Hyprmaid/internal/errors"
	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// State is the reconciliation loop state
type State string

const (
	StateIdle        State = "idle"
	StateReconciling State = "reconciling"
	StateAborted     State = "aborted"
)

// Decision is what the supervisor policy wants the loop to do after a pass
type Decision int

const (
	// Continue waits for the next scheduled pass
	Continue Decision = iota
	// Terminate stops the loop and returns the pass error
	Terminate
)

// Policy inspects a finished pass and decides whether the loop goes on
type Policy func(report models.PassReport, err error) Decision

// DefaultPolicy keeps reconciling after successful passes and terminates
// on the first failed one.
func DefaultPolicy(_ models.PassReport, err error) Decision {
	if err != nil {
		return Terminate
	}
	return Continue
}

// Status is a point-in-time view of the loop
type Status struct {
	State    State
	Passes   int
	LastPass *models.PassReport
}

// Loop runs reconciliation passes on a fixed schedule
type Loop struct {
	repos      RepositorySource
	groups     GroupInventory
	reconciler *Reconciler
	schedule   cron.Schedule
	policy     Policy
	log        *logger.Logger
	now        func() time.Time

	mu     sync.RWMutex
	state  State
	passes int
	last   *models.PassReport
}

// Option customizes a Loop
type Option func(*Loop)

// WithPolicy replaces DefaultPolicy
func WithPolicy(policy Policy) Option {
	return func(l *Loop) {
		l.policy = policy
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// NewLoop creates a loop in the Idle state
func NewLoop(repos RepositorySource, groups GroupInventory, reconciler *Reconciler, schedule cron.Schedule, log *logger.Logger, opts ...Option) *Loop {
	l := &Loop{
		repos:      repos,
		groups:     groups,
		reconciler: reconciler,
		schedule:   schedule,
		policy:     DefaultPolicy,
		log:        log,
		now:        time.Now,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes a pass immediately and then one per schedule tick until the
// policy terminates the loop or ctx is cancelled. A terminating pass error
// is returned and leaves the loop Aborted. Cancellation returns nil.
func (l *Loop) Run(ctx context.Context) error {
	for {
		report, err := l.pass(ctx)
		if ctx.Err() != nil {
			l.setState(StateIdle)
			return nil
		}

		if l.policy(report, err) == Terminate {
			l.setState(StateAborted)
			if err != nil {
				l.log.Error("Reconciliation aborted", err)
			}
			return err
		}
		l.setState(StateIdle)

		next := l.schedule.Next(l.now())
		timer := time.NewTimer(next.Sub(l.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunOnce executes a single pass. A failed pass leaves the loop Aborted.
func (l *Loop) RunOnce(ctx context.Context) (models.PassReport, error) {
	report, err := l.pass(ctx)
	if err != nil {
		l.setState(StateAborted)
		return report, err
	}
	l.setState(StateIdle)
	return report, nil
}

// Status returns a snapshot of the loop state
func (l *Loop) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()

	status := Status{State: l.state, Passes: l.passes}
	if l.last != nil {
		last := *l.last
		last.Provisioned = slices.Clone(last.Provisioned)
		last.Existing = slices.Clone(last.Existing)
		last.Blacklisted = slices.Clone(last.Blacklisted)
		status.LastPass = &last
	}
	return status
}

// pass lists both inventories and reconciles them
func (l *Loop) pass(ctx context.Context) (models.PassReport, error) {
	started := l.now()
	id := uuid.NewString()
	log := l.log.WithStr("pass_id", id)

	l.mu.Lock()
	l.state = StateReconciling
	l.passes++
	l.mu.Unlock()

	log.Info("Checking repositories")

	var result Report
	groups, err := l.groups.ChannelGroups(ctx)
	if err != nil {
		err = fmt.Errorf("listing channel groups: %w", err)
	} else {
		result, err = l.reconciler.Reconcile(ctx, l.repos.Repositories(ctx), groups)
	}

	report := models.PassReport{
		ID:           id,
		StartedAt:    started.Unix(),
		DurationMS:   l.now().Sub(started).Milliseconds(),
		Repositories: result.Repositories,
		Provisioned:  result.Provisioned,
		Existing:     result.Existing,
		Blacklisted:  result.Blacklisted,
	}
	if err != nil {
		report.Error = err.Error()
		report.ErrorKind = string(apperrors.KindOf(err))
		report.ErrorCode = string(apperrors.CodeOf(err))
	}

	l.mu.Lock()
	l.last = &report
	l.mu.Unlock()

	if err != nil {
		log.Error("Reconciliation pass failed", err)
		return report, err
	}

	log.Infof("Done checking repositories: %d listed, %d provisioned, %d existing, %d blacklisted",
		report.Repositories, len(report.Provisioned), len(report.Existing), len(report.Blacklisted))

	return report, nil
}

func (l *Loop) setState(state State) {
	l.mu.Lock()
	l.state = state
	l.mu.Unlock()
}
