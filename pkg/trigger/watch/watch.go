// Package watch adapts a resource-watch style event stream — Applied,
// Deleted, Restarted — into Reflector mutations, per spec §4.2 item 1.
package watch

import (
	"context"
	"log/slog"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/reflector"
)

// EventKind discriminates one watch.Event[K].
type EventKind int

const (
	Applied EventKind = iota
	Deleted
	Restarted
)

// Event is one item from a resource watch stream of kind K.
type Event[K any] struct {
	Kind      EventKind
	Item      K   // set on Applied
	Items     []K // set on Restarted
	Index     K   // set on Deleted (caller only needs enough to build an index)
}

// Hook observes every event fanned out alongside the Reflector mutation.
// Delivery is lossy if the hook is slow: a full hook channel drops the
// event and logs, rather than blocking the watch loop (spec §4.2).
type Hook[K any] chan Event[K]

// DeviceWatcher drains a Device event stream into the Reflector.
type DeviceWatcher struct {
	reflector *reflector.Reflector
	events    <-chan Event[model.Device]
	hooks     []Hook[model.Device]
	log       *slog.Logger
}

// NewDeviceWatcher builds a DeviceWatcher. hooks receive a best-effort copy
// of every event; a blocked hook channel only drops that hook's copy.
func NewDeviceWatcher(r *reflector.Reflector, events <-chan Event[model.Device], hooks []Hook[model.Device], log *slog.Logger) *DeviceWatcher {
	if log == nil {
		log = slog.Default()
	}
	return &DeviceWatcher{reflector: r, events: events, hooks: hooks, log: log}
}

// Run applies events until ctx is done or the stream closes.
func (w *DeviceWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.events:
			if !ok {
				return nil
			}
			w.apply(ev)
			fanOut(w.hooks, ev, w.log)
		}
	}
}

func (w *DeviceWatcher) apply(ev Event[model.Device]) {
	switch ev.Kind {
	case Applied:
		w.reflector.AddDevice(ev.Item)
	case Deleted:
		w.reflector.RemoveDevice(ev.Index.Index())
	case Restarted:
		w.reflector.RestartDevices(ev.Items)
	}
}

// ScriptWatcher drains a Script event stream into the Reflector.
type ScriptWatcher struct {
	reflector *reflector.Reflector
	events    <-chan Event[model.Script]
	hooks     []Hook[model.Script]
	log       *slog.Logger
}

// NewScriptWatcher builds a ScriptWatcher.
func NewScriptWatcher(r *reflector.Reflector, events <-chan Event[model.Script], hooks []Hook[model.Script], log *slog.Logger) *ScriptWatcher {
	if log == nil {
		log = slog.Default()
	}
	return &ScriptWatcher{reflector: r, events: events, hooks: hooks, log: log}
}

// Run applies events until ctx is done or the stream closes.
func (w *ScriptWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.events:
			if !ok {
				return nil
			}
			w.apply(ev)
			fanOut(w.hooks, ev, w.log)
		}
	}
}

func (w *ScriptWatcher) apply(ev Event[model.Script]) {
	switch ev.Kind {
	case Applied:
		w.reflector.AddScript(ev.Item)
	case Deleted:
		w.reflector.RemoveScript(ev.Index.Index())
	case Restarted:
		w.reflector.RestartScripts(ev.Items)
	}
}

func fanOut[K any](hooks []Hook[K], ev Event[K], log *slog.Logger) {
	for _, h := range hooks {
		select {
		case h <- ev:
		default:
			log.Warn("watch hook channel full, dropping event")
		}
	}
}
