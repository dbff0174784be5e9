package reflector

import (
	"sync"

	"github.com/edgemesh/ruleengine/pkg/model"
)

// scriptStore is a concurrent map keyed by ScriptIndex.
type scriptStore struct {
	mu      sync.RWMutex
	scripts map[model.ScriptIndex]model.Script
}

func newScriptStore() *scriptStore {
	return &scriptStore{scripts: make(map[model.ScriptIndex]model.Script)}
}

func (s *scriptStore) add(script model.Script) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[script.Index()] = script
}

func (s *scriptStore) remove(idx model.ScriptIndex) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.scripts[idx]
	delete(s.scripts, idx)
	return ok
}

func (s *scriptStore) get(idx model.ScriptIndex) (model.Script, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	script, ok := s.scripts[idx]
	return script, ok
}

func (s *scriptStore) snapshot() []model.Script {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Script, 0, len(s.scripts))
	for _, script := range s.scripts {
		out = append(out, script)
	}
	return out
}
