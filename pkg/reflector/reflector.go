// Package reflector is the in-memory mirror of the Device and Script
// resource stores plus the device-to-script selector index. It is the only
// authoritative copy of this state in the process: the Scheduler reads it,
// the trigger sources write it, and nothing else touches the persistence
// layer to answer these questions.
package reflector

import (
	"log/slog"
	"strings"

	"github.com/edgemesh/ruleengine/pkg/model"
)

// Reflector holds the three concurrent maps described in spec §3. Every map
// has its own lock; cross-map compound reads (as in LookupReadable) are
// intentionally non-atomic — a script can be removed between two lookups,
// which callers report as not-found rather than treating as a bug.
type Reflector struct {
	devices   *deviceStore
	scripts   *scriptStore
	selectors *selectorMap
	log       *slog.Logger
}

// New builds an empty Reflector.
func New(log *slog.Logger) *Reflector {
	if log == nil {
		log = slog.Default()
	}
	return &Reflector{
		devices:   newDeviceStore(),
		scripts:   newScriptStore(),
		selectors: newSelectorMap(),
		log:       log,
	}
}

// AddDevice inserts or replaces d. It does not touch the selector map —
// selectors are keyed by script, not by device.
func (r *Reflector) AddDevice(d model.Device) {
	r.devices.add(d)
}

// RemoveDevice deletes d's entry, logging a warning if it was already
// absent. Stale selectorMap entries referencing d are tolerated.
func (r *Reflector) RemoveDevice(idx model.DeviceIndex) {
	if !r.devices.remove(idx) {
		r.log.Warn("remove_device: device not present", "device", idx.String())
	}
}

// AddScript inserts or replaces s and derives its selectorMap entries from
// s.ReadSelector.MatchNames, dropping entries left by a previous version of s.
func (r *Reflector) AddScript(s model.Script) {
	r.scripts.add(s)
	r.selectors.remove(s.Index())
	r.selectors.add(s.Namespace, s.ReadSelector.MatchNames, s.Index())
}

// RemoveScript deletes s from the script store and removes its index from
// every selectorMap entry it appears in.
func (r *Reflector) RemoveScript(idx model.ScriptIndex) {
	if !r.scripts.remove(idx) {
		r.log.Warn("remove_script: script not present", "script", idx.String())
	}
	r.selectors.remove(idx)
}

// RestartDevices performs idempotent bulk re-insertion of a device watch's
// Restarted(...) event. The store is overlaid, not cleared first.
func (r *Reflector) RestartDevices(devices []model.Device) {
	for _, d := range devices {
		r.AddDevice(d)
	}
}

// RestartScripts performs idempotent bulk re-insertion of a script watch's
// Restarted(...) event.
func (r *Reflector) RestartScripts(scripts []model.Script) {
	for _, s := range scripts {
		r.AddScript(s)
	}
}

// LookupScript returns a copy of the script at idx.
func (r *Reflector) LookupScript(idx model.ScriptIndex) (model.Script, bool) {
	return r.scripts.get(idx)
}

// LookupDevice returns a copy of the device at idx.
func (r *Reflector) LookupDevice(idx model.DeviceIndex) (model.Device, bool) {
	return r.devices.get(idx)
}

// MapDeviceToScript returns every script whose read selector names
// deviceIdx. Absence of entries is not an error — callers get an empty slice.
func (r *Reflector) MapDeviceToScript(deviceIdx model.DeviceIndex) []model.ScriptIndex {
	return r.selectors.lookup(deviceIdx)
}

// LookupReadable implements spec §4.1's lookup_readable algorithm: for each
// (alias, device_name) in the script's read selector, devices absent from
// the store are skipped rather than failing the whole lookup, and only
// twins with a reported value are projected.
func (r *Reflector) LookupReadable(s model.Script) map[string]model.ReadableDevice {
	out := make(map[string]model.ReadableDevice, len(s.ReadSelector.MatchNames))
	for alias, deviceName := range s.ReadSelector.MatchNames {
		idx := model.DeviceIndex{Namespace: s.Namespace, Name: deviceName}
		d, ok := r.devices.get(idx)
		if !ok {
			continue
		}
		status := make(map[string]string)
		for _, t := range d.Twins {
			if t.Reported != nil {
				status[t.PropertyName] = t.Reported.Value
			}
		}
		out[alias] = model.ReadableDevice{Name: d.Name, Status: status}
	}
	return out
}

// LookupWritable symmetrically projects every (alias, deviceName) pair from
// the write selector. Unlike LookupReadable it never consults the device
// store: a writable target only needs a name, not live twin data, so a
// device that hasn't yet been mirrored into the Reflector (or is never
// read/twinned at all) still appears in the result.
func (r *Reflector) LookupWritable(s model.Script) map[string]model.WritableDevice {
	out := make(map[string]model.WritableDevice, len(s.WriteSelector.MatchNames))
	for alias, deviceName := range s.WriteSelector.MatchNames {
		out[alias] = model.WritableDevice{Name: deviceName}
	}
	return out
}

// DebugDump renders the full Reflector state for the diagnostic HTTP
// endpoint. It is a point-in-time snapshot, not a consistent one.
func (r *Reflector) DebugDump() string {
	var b strings.Builder
	b.WriteString("devices:\n")
	for _, d := range r.devices.snapshot() {
		b.WriteString("  " + d.Index().String() + " model=" + d.DeviceModel + "\n")
	}
	b.WriteString("scripts:\n")
	for _, s := range r.scripts.snapshot() {
		b.WriteString("  " + s.Index().String() + " manifest=" + s.Manifest.Name + "@" + s.Manifest.Version + "\n")
	}
	b.WriteString("selectors:\n")
	r.selectors.mu.RLock()
	for deviceIdx, set := range r.selectors.byDevice {
		b.WriteString("  " + deviceIdx.String() + " ->")
		for scriptIdx := range set {
			b.WriteString(" " + scriptIdx.String())
		}
		b.WriteString("\n")
	}
	r.selectors.mu.RUnlock()
	return b.String()
}
