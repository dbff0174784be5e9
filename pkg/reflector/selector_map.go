package reflector

import (
	"sync"

	"github.com/edgemesh/ruleengine/pkg/model"
)

// selectorMap is the device-index -> set-of-script-index index described in
// spec §3: S is in selectorMap[D] iff some alias in S.ReadSelector.MatchNames
// names D. It is keyed and locked independently of both resource stores.
type selectorMap struct {
	mu      sync.RWMutex
	byDevice map[model.DeviceIndex]map[model.ScriptIndex]struct{}
}

func newSelectorMap() *selectorMap {
	return &selectorMap{byDevice: make(map[model.DeviceIndex]map[model.ScriptIndex]struct{})}
}

// add inserts scriptIdx under every device index named in matchNames,
// creating each entry on first touch.
func (m *selectorMap) add(namespace string, matchNames map[string]string, scriptIdx model.ScriptIndex) {
	if len(matchNames) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, deviceName := range matchNames {
		deviceIdx := model.DeviceIndex{Namespace: namespace, Name: deviceName}
		set, ok := m.byDevice[deviceIdx]
		if !ok {
			set = make(map[model.ScriptIndex]struct{})
			m.byDevice[deviceIdx] = set
		}
		set[scriptIdx] = struct{}{}
	}
}

// remove deletes scriptIdx from every entry it appears in. Empty entries are
// left in place per spec §4.1.
func (m *selectorMap) remove(scriptIdx model.ScriptIndex) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, set := range m.byDevice {
		delete(set, scriptIdx)
	}
}

// lookup returns the scripts mapped to a device index.
func (m *selectorMap) lookup(deviceIdx model.DeviceIndex) []model.ScriptIndex {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.byDevice[deviceIdx]
	if !ok {
		return nil
	}
	out := make([]model.ScriptIndex, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	return out
}
