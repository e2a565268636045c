// Package cidict provides a string-keyed map that ignores key case.
// Camera names come back from the cloud with inconsistent casing, so every
// name-keyed collection normalizes on both insert and lookup.
package cidict

import "strings"

// Dict is a case-insensitive string-keyed map. Lookups normalize the key;
// the original casing of the first insert is preserved for iteration.
type Dict[V any] struct {
	values map[string]V
	keys   map[string]string // lowered key -> original casing
}

// New returns an empty Dict.
func New[V any]() *Dict[V] {
	return &Dict[V]{
		values: make(map[string]V),
		keys:   make(map[string]string),
	}
}

// Set stores value under key. A key differing only in case replaces the
// existing entry but keeps the original casing.
func (d *Dict[V]) Set(key string, value V) {
	lower := strings.ToLower(key)
	if _, ok := d.keys[lower]; !ok {
		d.keys[lower] = key
	}
	d.values[lower] = value
}

// Get returns the value stored under key, ignoring case.
func (d *Dict[V]) Get(key string) (V, bool) {
	v, ok := d.values[strings.ToLower(key)]
	return v, ok
}

// Has reports whether key is present, ignoring case.
func (d *Dict[V]) Has(key string) bool {
	_, ok := d.values[strings.ToLower(key)]
	return ok
}

// Len returns the number of entries.
func (d *Dict[V]) Len() int {
	return len(d.values)
}

// Keys returns the keys in their original casing.
func (d *Dict[V]) Keys() []string {
	out := make([]string, 0, len(d.keys))
	for _, orig := range d.keys {
		out = append(out, orig)
	}
	return out
}
