package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dugout-dev/dugout/internal/domain"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateWatching, "Watching"},
		{StateStopping, "Stopping"},
		{StateFailed, "Failed"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestLifecycle_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"stopped to starting", StateStopped, StateStarting, nil},
		{"starting to watching", StateStarting, StateWatching, nil},
		{"starting to stopping", StateStarting, StateStopping, nil},
		{"watching to stopping", StateWatching, StateStopping, nil},
		{"watching to failed", StateWatching, StateFailed, nil},
		{"stopping to stopped", StateStopping, StateStopped, nil},
		{"failed to starting", StateFailed, StateStarting, nil},
		{"stopped to watching", StateStopped, StateWatching, domain.ErrNotRunning},
		{"stopped to stopping", StateStopped, StateStopping, domain.ErrNotRunning},
		{"failed to stopped", StateFailed, StateStopped, domain.ErrNotRunning},
		{"watching to starting", StateWatching, StateStarting, domain.ErrAlreadyRunning},
		{"starting to stopped", StateStarting, StateStopped, domain.ErrAlreadyRunning},
		{"stopping to watching", StateStopping, StateWatching, domain.ErrAlreadyRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, l.State())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, l.State())
		})
	}
}

func TestLifecycle_Cancel(t *testing.T) {
	l := NewLifecycle(nil)
	l.Cancel() // no cancel func yet

	ctx, cancel := context.WithCancel(context.Background())
	l.SetCancel(cancel)
	l.Cancel()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("context not canceled")
	}
}

func TestLifecycle_Wait(t *testing.T) {
	l := NewLifecycle(nil)
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Track(func() {
			close(started)
			<-release
		})
	}()
	<-started

	assert.ErrorIs(t, l.Wait(10*time.Millisecond), domain.ErrShutdownTimeout)

	close(release)
	wg.Wait()
	assert.NoError(t, l.Wait(time.Second))
}
