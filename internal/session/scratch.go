package session

import "sync"

// Keys used in Scratch.
const (
	KeyDraftID   = "currentDraftId"
	KeyNarrative = "narrativeText"
	KeySMFID     = "currentSmfId"
)

// Scratch is per-run storage that survives moving between screens but not
// the process, e.g. the active draft id or narrative text handed to the SMF
// builder.
type Scratch struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewScratch() *Scratch {
	return &Scratch{values: make(map[string]string)}
}

func (s *Scratch) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Scratch) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

func (s *Scratch) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}
