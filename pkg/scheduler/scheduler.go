// Package scheduler turns a script-trigger into a fully-resolved RunCommand
// by reading Reflector state, per spec §4.3.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/edgemesh/ruleengine/pkg/idgen"
	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/reflector"
)

// Scheduler consumes the script-trigger queue and produces RunEnvelopes on
// the run-queue for the Session Manager.
type Scheduler struct {
	reflector *reflector.Reflector
	scriptIDs *idgen.Generator
	triggers  <-chan model.ScriptIndex
	runQueue  chan<- model.RunEnvelope
	log       *slog.Logger
}

// New builds a Scheduler. triggers is the script-trigger queue (capacity
// 10); runQueue is the Scheduler's output channel (capacity 10), shared by
// every connected executor's dispatch loop.
func New(r *reflector.Reflector, triggers <-chan model.ScriptIndex, runQueue chan<- model.RunEnvelope, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		reflector: r,
		scriptIDs: idgen.NewGenerator(),
		triggers:  triggers,
		runQueue:  runQueue,
		log:       log,
	}
}

// Run drains the trigger queue until ctx is done or the queue is closed.
// A not-found script is logged and dropped; the scheduler moves on to the
// next trigger rather than treating it as fatal (spec §7).
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case idx, ok := <-s.triggers:
			if !ok {
				return nil
			}
			if err := s.handle(ctx, idx); err != nil {
				s.log.Error("scheduler: dropping trigger", "script", idx.String(), "error", err)
			}
		}
	}
}

func (s *Scheduler) handle(ctx context.Context, idx model.ScriptIndex) error {
	script, ok := s.reflector.LookupScript(idx)
	if !ok {
		return errNotFound(idx)
	}

	run := model.RunCommand{
		ScriptID:   s.scriptIDs.Next(),
		Manifest:   script.Manifest,
		Readable:   s.reflector.LookupReadable(script),
		Writable:   s.reflector.LookupWritable(script),
		Env:        script.Env,
		DefaultQoS: script.ExecutePolicy.QoS,
	}

	env := model.RunEnvelope{
		Run:             run,
		ScriptNamespace: script.Namespace,
		ScriptName:      script.Name,
	}

	// Back-pressure is intentional: if the run-queue is full, block. Dropping
	// triggers silently would break read_change semantics (spec §4.3).
	select {
	case s.runQueue <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type notFoundError struct {
	idx model.ScriptIndex
}

func (e *notFoundError) Error() string {
	return "script not found: " + e.idx.String()
}

func errNotFound(idx model.ScriptIndex) error {
	return &notFoundError{idx: idx}
}
