package app

import (
	"context"
	"sync"
	"time"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/pkg/log"
)

// ShutdownTimeout bounds how long Stop waits for in-flight renders.
const ShutdownTimeout = 30 * time.Second

// State is the state of a long-running render session.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateWatching
	StateStopping
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateWatching:
		return "Watching"
	case StateStopping:
		return "Stopping"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// allowed lists the legal successors of each state.
var allowed = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateWatching, StateStopping, StateFailed},
	StateWatching: {StateStopping, StateFailed},
	StateStopping: {StateStopped, StateFailed},
	StateFailed:   {StateStarting},
}

// Lifecycle tracks a render session: its state, the cancel function of its
// context and the renders still in flight.
type Lifecycle struct {
	mu     sync.RWMutex
	state  State
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger log.Logger
}

// NewLifecycle returns a lifecycle in StateStopped.
func NewLifecycle(logger log.Logger) *Lifecycle {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Lifecycle{logger: logger}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to next. Leaving an active state the wrong way returns
// domain.ErrAlreadyRunning; leaving an inactive one returns domain.ErrNotRunning.
func (l *Lifecycle) TransitionTo(next State, reason string) error {
	l.mu.Lock()
	prev := l.state
	if !canMove(prev, next) {
		l.mu.Unlock()
		if prev == StateStopped || prev == StateFailed {
			return domain.ErrNotRunning
		}
		return domain.ErrAlreadyRunning
	}
	l.state = next
	l.mu.Unlock()

	l.logger.Debug("session state",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
	return nil
}

func canMove(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SetCancel stores the cancel function of the session context.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel cancels the session context, if any.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Track runs fn as an in-flight render that Wait will wait for.
func (l *Lifecycle) Track(fn func()) {
	l.wg.Add(1)
	defer l.wg.Done()
	fn()
}

// Wait blocks until all tracked renders return, or the timeout expires.
func (l *Lifecycle) Wait(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		l.logger.Warn("renders still running at shutdown", log.Duration("timeout", timeout))
		return domain.ErrShutdownTimeout
	}
}
