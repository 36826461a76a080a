package syncutil

import (
	"encoding/json"
	"iter"
	"sync"
)

// Map is a wrapper around a map[K]V that is safe for concurrent use by
// multiple goroutines.
type Map[K comparable, V any] struct {
	m map[K]V
	sync.Mutex
}

// Make is the concurrency-safe equivalent of make(map[K]V)
func (m *Map[K, V]) Make() {
	m.Lock()
	m.m = make(map[K]V)
	m.Unlock()
}

// MakeSize is the concurrency-safe equivalent of make(map[K]V, n)
func (m *Map[K, V]) MakeSize(n int) {
	m.Lock()
	m.m = make(map[K]V, n)
	m.Unlock()
}

// Clear deletes all the entries, resulting in an empty Map.
func (m *Map[K, V]) Clear() {
	m.Lock()
	clear(m.m)
	m.Unlock()
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	m.Lock()
	defer m.Unlock()
	return len(m.m)
}

// Store sets the value for a key.
func (m *Map[K, V]) Store(k K, v V) {
	m.Lock()
	if m.m == nil {
		m.m = make(map[K]V)
	}
	m.m[k] = v
	m.Unlock()
}

// Load returns the value stored in the map for a key, or the zero value of V
// if no value is present. The ok result indicates whether value was found in
// the map.
func (m *Map[K, V]) Load(k K) (v V, ok bool) {
	m.Lock()
	v, ok = m.m[k]
	m.Unlock()
	return
}

// LoadOrStore returns the existing value for the key if present. Otherwise,
// it stores and returns the given value. The loaded result is true if the
// value was loaded, false if stored.
func (m *Map[K, V]) LoadOrStore(k K, v V) (actual V, loaded bool) {
	m.Lock()
	defer m.Unlock()
	if m.m == nil {
		m.m = make(map[K]V)
	}
	if actual, loaded = m.m[k]; loaded {
		return
	}
	m.m[k] = v
	return v, false
}

// Swap swaps the value for a key and returns the previous value if any. The
// loaded result reports whether the key was present.
func (m *Map[K, V]) Swap(k K, v V) (old V, loaded bool) {
	m.Lock()
	old, loaded = m.m[k]
	if m.m == nil {
		m.m = make(map[K]V)
	}
	m.m[k] = v
	m.Unlock()
	return
}

// Delete deletes the value for a key.
func (m *Map[K, V]) Delete(k K) {
	if m == nil {
		return
	}
	m.Lock()
	delete(m.m, k)
	m.Unlock()
}

// Iter locks m and returns an iterator over entries of m. Once iteration is
// complete, m will be unlocked.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.Lock()
		defer m.Unlock()
		for k, v := range m.m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// MarshalJSON implements [encoding/json.Marshaler].
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	m.Lock()
	defer m.Unlock()
	return json.Marshal(m.m)
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
func (m *Map[K, V]) UnmarshalJSON(b []byte) error {
	m.Lock()
	defer m.Unlock()
	return json.Unmarshal(b, &m.m)
}
