package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/williamthazard/react-test/internal/quiz"
)

// MemoryStore backs tests and the no-credentials fallback. It keeps
// handles in insertion order so Probe is deterministic like the real
// drivers' listings.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []DocumentHandle
	docs    map[DocumentHandle]string
	nextSeq int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[DocumentHandle]string{}}
}

func (s *MemoryStore) Probe(_ context.Context) (DocumentHandle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return "", false, nil
	}
	return s.order[0], true, nil
}

func (s *MemoryStore) Get(_ context.Context, h DocumentHandle) (*quiz.TestDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.docs[h]
	if !ok {
		return nil, fmt.Errorf("document %q not found", h)
	}
	return decodePayload(payload)
}

func (s *MemoryStore) Create(_ context.Context, def *quiz.TestDefinition) (DocumentHandle, error) {
	payload, err := encodePayload(def)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	h := DocumentHandle(fmt.Sprintf("doc-%d", s.nextSeq))
	s.docs[h] = payload
	s.order = append(s.order, h)
	return h, nil
}

func (s *MemoryStore) Update(_ context.Context, h DocumentHandle, def *quiz.TestDefinition) error {
	payload, err := encodePayload(def)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[h]; !ok {
		return fmt.Errorf("document %q not found", h)
	}
	s.docs[h] = payload
	return nil
}

// Len reports how many documents exist; tests use it to assert the second
// save updates instead of creating a duplicate.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
