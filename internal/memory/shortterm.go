package memory

import (
	"sync"
	"time"
)

// #region short-term

// ShortTerm is a fixed-capacity ring of recent entries. Record never
// blocks and never fails; on overflow the oldest entry is dropped.
// Single writer, multiple readers.
type ShortTerm struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	next     int // write position
	size     int
}

// NewShortTerm creates a ring with the given capacity (minimum 1).
func NewShortTerm(capacity int) *ShortTerm {
	if capacity < 1 {
		capacity = 1
	}
	return &ShortTerm{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// #endregion short-term

// #region record

// Record appends an entry, stamping CreatedAt when unset.
func (s *ShortTerm) Record(e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.entries[s.next] = e
	s.next = (s.next + 1) % s.capacity
	if s.size < s.capacity {
		s.size++
	}
	s.mu.Unlock()
}

// #endregion record

// #region recent

// Recent returns up to n entries, newest first. Reading does not
// consume the buffer.
func (s *ShortTerm) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > s.size {
		n = s.size
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := (s.next - 1 - i + s.capacity*2) % s.capacity
		out = append(out, s.entries[idx])
	}
	return out
}

// Len returns the number of stored entries.
func (s *ShortTerm) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Clear drops all entries.
func (s *ShortTerm) Clear() {
	s.mu.Lock()
	s.next = 0
	s.size = 0
	s.mu.Unlock()
}

// #endregion recent
