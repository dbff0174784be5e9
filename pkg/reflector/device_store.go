package reflector

import (
	"sync"

	"github.com/edgemesh/ruleengine/pkg/model"
)

// deviceStore is a concurrent map keyed by DeviceIndex. Its own lock is
// independent of the script store and selector map so readers and writers
// on one never block the others.
type deviceStore struct {
	mu      sync.RWMutex
	devices map[model.DeviceIndex]model.Device
}

func newDeviceStore() *deviceStore {
	return &deviceStore{devices: make(map[model.DeviceIndex]model.Device)}
}

func (s *deviceStore) add(d model.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.Index()] = d
}

// remove reports whether the device was present.
func (s *deviceStore) remove(idx model.DeviceIndex) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.devices[idx]
	delete(s.devices, idx)
	return ok
}

func (s *deviceStore) get(idx model.DeviceIndex) (model.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[idx]
	return d, ok
}

// snapshot returns a copy of every device currently stored, used by the
// debug dump endpoint.
func (s *deviceStore) snapshot() []model.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	return out
}
