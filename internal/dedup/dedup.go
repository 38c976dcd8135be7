// Package dedup answers "seen before?" for content fingerprints.
package dedup

import "sync"

// Store is a process-local fingerprint set. Seen and Record are individually
// safe, and CheckAndRecord performs both under one critical section so that
// concurrent jobs discovering the same fingerprint cannot both treat it as
// new.
type Store struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Preload marks fingerprints already known to the persistence sink, so a
// restarted process keeps its idempotence guarantee.
func (s *Store) Preload(fingerprints []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fp := range fingerprints {
		if fp != "" {
			s.seen[fp] = struct{}{}
		}
	}
}

// Seen reports whether the fingerprint was recorded before.
func (s *Store) Seen(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[fingerprint]
	return ok
}

// Record marks a fingerprint; recording an already-seen fingerprint is a
// no-op.
func (s *Store) Record(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[fingerprint] = struct{}{}
}

// Forget releases a fingerprint so the same content can pass the gate again.
// Used when persistence fails after the gate; otherwise the item would count
// as duplicate on every later crawl without ever reaching the sink.
func (s *Store) Forget(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, fingerprint)
}

// CheckAndRecord atomically records the fingerprint and reports whether this
// call was the first to do so.
func (s *Store) CheckAndRecord(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[fingerprint]; ok {
		return false
	}
	s.seen[fingerprint] = struct{}{}
	return true
}

// Len returns the number of recorded fingerprints.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
