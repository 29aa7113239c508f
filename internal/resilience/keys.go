package resilience

import (
	"sync"
)

// KeyRing rotates through a fixed set of API keys. A key is retired once it
// is reported bad; Next skips retired keys.
type KeyRing struct {
	mu      sync.Mutex
	keys    []string
	retired map[int]bool
	next    int
}

// NewKeyRing returns a ring over keys in the given order.
func NewKeyRing(keys []string) *KeyRing {
	return &KeyRing{
		keys:    append([]string(nil), keys...),
		retired: make(map[int]bool),
	}
}

// Len returns the number of keys that have not been retired.
func (r *KeyRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys) - len(r.retired)
}

// Next returns the next live key and its slot, or ok=false when every key
// has been retired.
func (r *KeyRing) Next() (key string, slot int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range r.keys {
		i := r.next
		r.next = (r.next + 1) % len(r.keys)
		if !r.retired[i] {
			return r.keys[i], i, true
		}
	}
	return "", -1, false
}

// Retire marks the key in slot as unusable.
func (r *KeyRing) Retire(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot >= 0 && slot < len(r.keys) {
		r.retired[slot] = true
	}
}
