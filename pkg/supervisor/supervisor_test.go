package supervisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisor_InitThenStop(t *testing.T) {
	s, ctx := New(nil)
	assert.Equal(t, StateInit, s.State())

	s.Init()
	assert.Equal(t, StateRunning, s.State())
	select {
	case <-s.Running():
	default:
		t.Fatal("expected Running() to be closed after Init")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, StateStop, s.State())

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected root context to be cancelled after Stop")
	}
}

func TestSupervisor_DoubleInitPanics(t *testing.T) {
	s, _ := New(nil)
	s.Init()
	assert.Panics(t, func() { s.Init() })
}

func TestSupervisor_StopBeforeInitPanics(t *testing.T) {
	s, _ := New(nil)
	assert.Panics(t, func() { s.Stop() })
}

func TestSupervisor_DoubleStopPanics(t *testing.T) {
	s, _ := New(nil)
	s.Init()
	s.Stop()
	assert.Panics(t, func() { s.Stop() })
}

func TestSupervisor_StoppedUnblocksWaitingTask(t *testing.T) {
	s, _ := New(nil)
	s.Init()

	unblocked := make(chan struct{})
	go func() {
		<-s.Stopped()
		close(unblocked)
	}()

	go s.Stop()

	require.Eventually(t, func() bool {
		select {
		case <-unblocked:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
