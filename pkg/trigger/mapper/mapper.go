// Package mapper implements the Device-to-Script mapper (spec §4.2 item 2):
// for each incoming device index, it consults the Reflector's SelectorMap
// and emits one script-trigger per matched script.
package mapper

import (
	"context"
	"log/slog"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/reflector"
)

// Mapper drains device indices and fans them out to the script-trigger queue.
type Mapper struct {
	reflector *reflector.Reflector
	devices   <-chan model.DeviceIndex
	triggers  chan<- model.ScriptIndex
	log       *slog.Logger
}

// New builds a Mapper. devices carries device indices from the MQTT
// trigger source; triggers is the bounded script-trigger queue (capacity
// 10) the Scheduler drains.
func New(r *reflector.Reflector, devices <-chan model.DeviceIndex, triggers chan<- model.ScriptIndex, log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{reflector: r, devices: devices, triggers: triggers, log: log}
}

// Run maps devices to scripts until ctx is done or the device channel closes.
func (m *Mapper) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case idx, ok := <-m.devices:
			if !ok {
				return nil
			}
			m.dispatch(ctx, idx)
		}
	}
}

func (m *Mapper) dispatch(ctx context.Context, deviceIdx model.DeviceIndex) {
	// Absence of matching scripts is not an error (spec §4.2 item 2).
	for _, scriptIdx := range m.reflector.MapDeviceToScript(deviceIdx) {
		select {
		case m.triggers <- scriptIdx:
		case <-ctx.Done():
			return
		}
	}
}
