package interview

import "sync"

// AnswerStore is the ordered record of answered questions for one session.
// Appends keep strict chronological order; records are never removed
// within a session. Feedback is attached in place exactly once.
type AnswerStore struct {
	mu      sync.RWMutex
	records []*AnswerRecord
}

// NewAnswerStore returns an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{records: make([]*AnswerRecord, 0, 8)}
}

// Append adds a record to the end of the store.
func (s *AnswerStore) Append(rec *AnswerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Len reports the number of recorded answers.
func (s *AnswerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// At returns the record at position i in insertion order, or nil when i
// is out of range.
func (s *AnswerStore) At(i int) *AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.records) {
		return nil
	}
	return s.records[i]
}

// SetFeedback attaches feedback to the record at position i unless the
// record already carries one. It reports whether the feedback was stored.
func (s *AnswerStore) SetFeedback(i int, fb *FeedbackResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.records) || s.records[i].Feedback != nil {
		return false
	}
	s.records[i].Feedback = fb
	return true
}

// Records returns a snapshot of the insertion-ordered record slice. The
// pointed-to records are shared; callers must not mutate them.
func (s *AnswerStore) Records() []*AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*AnswerRecord, len(s.records))
	copy(out, s.records)
	return out
}
