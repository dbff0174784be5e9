// Package supervisor owns process lifecycle (Init/Running/Stop), per spec
// §4.5. All spawned tasks wait for Running before doing work and select on
// Stopped() to unwind cooperatively when shutdown begins.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is a position in the supervisor's lifecycle.
type State int

const (
	StateInit State = iota
	StateRunning
	StateStop
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateRunning:
		return "Running"
	case StateStop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// shutdownGrace is how long Stop waits before cancelling outstanding tasks,
// giving executor streams time to emit Disconnect(ServerExit) (spec §4.5).
const shutdownGrace = 100 * time.Millisecond

// Supervisor is a single-writer, many-reader versioned state cell. Readers
// block on Running() or Stopped() and are notified of the transition by a
// channel close, never by a value they must re-poll.
type Supervisor struct {
	mu      sync.Mutex
	state   State
	running chan struct{}
	stop    chan struct{}
	cancel  context.CancelFunc
	log     *slog.Logger
}

// New builds a Supervisor in State Init with a context that is cancelled
// once Stop's shutdown grace period elapses. Callers should use the
// returned context to bound every task they spawn.
func New(log *slog.Logger) (*Supervisor, context.Context) {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		state:   StateInit,
		running: make(chan struct{}),
		stop:    make(chan struct{}),
		cancel:  cancel,
		log:     log,
	}, ctx
}

// Init transitions Init -> Running and broadcasts to every task waiting on
// Running(). It panics if called from any state other than Init — a
// programmer error, not a data-path failure (spec §7).
func (s *Supervisor) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInit {
		panic(fmt.Sprintf("supervisor: Init called from state %s, want Init", s.state))
	}
	s.state = StateRunning
	close(s.running)
}

// Stop transitions to Stop, broadcasts to every task waiting on Stopped(),
// sleeps the shutdown grace period, then cancels the root context. It
// panics if called before Init or a second time.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.state == StateInit {
		s.mu.Unlock()
		panic("supervisor: Stop called before Init")
	}
	if s.state == StateStop {
		s.mu.Unlock()
		panic("supervisor: Stop called twice")
	}
	s.state = StateStop
	close(s.stop)
	s.mu.Unlock()

	s.log.Info("supervisor: stopping, waiting grace period", "grace", shutdownGrace)
	time.Sleep(shutdownGrace)
	s.cancel()
}

// Running returns a channel closed once the supervisor reaches State Running.
func (s *Supervisor) Running() <-chan struct{} {
	return s.running
}

// Stopped returns a channel closed once the supervisor reaches State Stop.
// Long-running tasks select on this alongside their normal suspension
// points to unwind cooperatively.
func (s *Supervisor) Stopped() <-chan struct{} {
	return s.stop
}

// State returns the current lifecycle position.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
