// Package locks provides a per-key mutex. The engine serializes every
// mutation of a given job or request through it, so concurrent confirmations
// cannot race the read-modify-write cycle against the record store.
package locks

import "sync"

// Keyed hands out one mutex per key. Entries live for the process lifetime;
// the key space is bounded by the number of jobs and requests.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*sync.Mutex
}

// NewKeyed returns an empty lock set.
func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the unlock function.
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.entries[key]
	if !ok {
		m = &sync.Mutex{}
		k.entries[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
