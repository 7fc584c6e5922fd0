package domain

import (
	"bytes"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// orderedMap is a map that remembers key insertion order.
// The zero value is ready to use.
type orderedMap[K comparable, V any] struct {
	om *orderedmap.OrderedMap[K, V]
}

func (m *orderedMap[K, V]) store() *orderedmap.OrderedMap[K, V] {
	if m.om == nil {
		m.om = orderedmap.New[K, V]()
	}
	return m.om
}

// Get returns the value stored under key.
func (m *orderedMap[K, V]) Get(key K) (V, bool) {
	if m.om == nil {
		var zero V
		return zero, false
	}
	return m.om.Get(key)
}

// Set stores value under key. New keys are appended to the order.
func (m *orderedMap[K, V]) Set(key K, value V) {
	m.store().Set(key, value)
}

// Delete removes key and reports whether it was present.
func (m *orderedMap[K, V]) Delete(key K) bool {
	if m.om == nil {
		return false
	}
	_, ok := m.om.Delete(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *orderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Len returns the number of entries.
func (m *orderedMap[K, V]) Len() int {
	if m.om == nil {
		return 0
	}
	return m.om.Len()
}

// Clear removes every entry.
func (m *orderedMap[K, V]) Clear() {
	m.om = nil
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *orderedMap[K, V]) Range(fn func(K, V) bool) {
	if m.om == nil {
		return
	}
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON writes the entries as an object in insertion order.
func (m *orderedMap[K, V]) MarshalJSON() ([]byte, error) {
	if m.om == nil {
		return []byte("{}"), nil
	}
	return m.om.MarshalJSON()
}

// UnmarshalJSON replaces the entries with the members of a JSON object,
// keeping their order. A null document clears the map.
func (m *orderedMap[K, V]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		m.Clear()
		return nil
	}
	om := orderedmap.New[K, V]()
	if err := om.UnmarshalJSON(data); err != nil {
		return err
	}
	m.om = om
	return nil
}
