package service

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// falsePositiveRate sizes each bloom filter generation.
const falsePositiveRate = 0.001

// keyGeneration is a bloom filter in front of the exact key set. The
// filter answers most "never seen" lookups without touching the map.
type keyGeneration struct {
	filter *bloom.BloomFilter
	keys   map[string]struct{}
}

func newKeyGeneration(capacity int) *keyGeneration {
	return &keyGeneration{
		filter: bloom.NewWithEstimates(uint(capacity), falsePositiveRate),
		keys:   make(map[string]struct{}, capacity),
	}
}

func (g *keyGeneration) has(key string) bool {
	if !g.filter.TestString(key) {
		return false
	}
	_, ok := g.keys[key]
	return ok
}

func (g *keyGeneration) add(key string) {
	g.filter.AddString(key)
	g.keys[key] = struct{}{}
}

// idempotencyGuard remembers order keys across two generations of
// capacity keys each, so at least the last capacity keys are always
// recognised.
type idempotencyGuard struct {
	mu       sync.Mutex
	capacity int
	current  *keyGeneration
	previous *keyGeneration
}

func newIdempotencyGuard(capacity int) *idempotencyGuard {
	if capacity <= 0 {
		capacity = 1
	}
	return &idempotencyGuard{
		capacity: capacity,
		current:  newKeyGeneration(capacity),
		previous: newKeyGeneration(1),
	}
}

// reserve claims key and reports false if it was already claimed.
func (g *idempotencyGuard) reserve(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current.has(key) || g.previous.has(key) {
		return false
	}
	g.current.add(key)
	if len(g.current.keys) >= g.capacity {
		g.previous = g.current
		g.current = newKeyGeneration(g.capacity)
	}
	return true
}

// release gives back a key whose order was not placed. The bloom bit stays
// set; the exact set is authoritative.
func (g *idempotencyGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.current.keys, key)
	delete(g.previous.keys, key)
}
