package learning

import (
	"math/rand"
	"sync"
)

// #region replay-buffer

// ReplayBuffer is a fixed-capacity ring of experiences; the oldest is
// evicted first. Append and Sample are individually atomic, so a
// background training cadence never observes a half-written append.
type ReplayBuffer struct {
	mu       sync.Mutex
	items    []Experience
	capacity int
	next     int
	size     int
}

// NewReplayBuffer creates a buffer with the given capacity (minimum 1).
func NewReplayBuffer(capacity int) *ReplayBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ReplayBuffer{
		items:    make([]Experience, capacity),
		capacity: capacity,
	}
}

// Append adds an experience, evicting the oldest on overflow.
func (b *ReplayBuffer) Append(e Experience) {
	b.mu.Lock()
	b.items[b.next] = e
	b.next = (b.next + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
	b.mu.Unlock()
}

// Len returns the number of stored experiences.
func (b *ReplayBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Sample draws n experiences uniformly at random without replacement
// within this call. Returns nil when fewer than n are stored.
func (b *ReplayBuffer) Sample(n int, rng *rand.Rand) []Experience {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 || b.size < n {
		return nil
	}
	perm := rng.Perm(b.size)
	out := make([]Experience, n)
	for i := 0; i < n; i++ {
		out[i] = b.items[perm[i]]
	}
	return out
}

// #endregion replay-buffer
