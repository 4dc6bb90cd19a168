package review

import (
	"sync"
	"time"

	"vegly/internal/core"
)

// Store holds classifications awaiting human corrections. Records live in
// memory only; a restart drops pending reviews, which is acceptable for a
// single-process deployment where reviewers answer within the service
// lifetime.
type Store struct {
	mu      sync.Mutex
	pending map[string]core.ReviewRecord
}

// NewStore returns an empty review store.
func NewStore() *Store {
	return &Store{pending: make(map[string]core.ReviewRecord)}
}

// Put records a pending review for later correction.
func (s *Store) Put(requestID string, items []core.DetailedItem, partial *core.NeedsReviewResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[requestID] = core.ReviewRecord{
		RequestID:     requestID,
		Items:         items,
		PartialResult: partial,
		CreatedAt:     time.Now().UTC(),
	}
}

// Get returns the pending review for requestID, if any.
func (s *Store) Get(requestID string) (core.ReviewRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.pending[requestID]
	return record, ok
}

// Clear removes a completed review.
func (s *Store) Clear(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, requestID)
}

// Len reports how many reviews are still waiting.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
