/*
© 2024–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package ctype parses RFC 9110 media-type ("Content-Type") header
// values into structured type/subtype/suffix/parameter data, and
// holds the small ordered multimap the parsed parameters are kept in.
package ctype

// MultiValueMap is an insertion-order-preserving multimap: a key may
// carry more than one value, and Keys/iteration never reorder entries,
// using an ordered-map shape (value slices keyed by insertion order)
// rather than Go's unordered built-in map.
type MultiValueMap struct {
	keys   []string
	values map[string][]string
}

// NewMultiValueMap returns an empty map.
func NewMultiValueMap() (m *MultiValueMap) {
	return &MultiValueMap{values: map[string][]string{}}
}

// Set appends value under key, preserving any values already present.
func (m *MultiValueMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Get returns the first value stored under key, and whether key is
// present at all.
func (m *MultiValueMap) Get(key string) (value string, ok bool) {
	var vs, has = m.values[key]
	if !has || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// GetOr is Get with a fallback instead of an ok flag.
func (m *MultiValueMap) GetOr(key, fallback string) (value string) {
	if v, ok := m.Get(key); ok {
		return v
	}
	return fallback
}

// GetAll returns every value stored under key, in insertion order.
func (m *MultiValueMap) GetAll(key string) (values []string) {
	return m.values[key]
}

// Keys returns every distinct key, in first-insertion order.
func (m *MultiValueMap) Keys() (keys []string) {
	keys = make([]string, len(m.keys))
	copy(keys, m.keys)
	return
}

// Len reports the number of distinct keys.
func (m *MultiValueMap) Len() int { return len(m.keys) }

// Equal reports whether m and other hold the same keys, each mapped
// to the same multiset of values, ignoring insertion order.
func (m *MultiValueMap) Equal(other *MultiValueMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.keys) != len(other.keys) {
		return false
	}
	for k, vs := range m.values {
		var ovs = other.values[k]
		if len(vs) != len(ovs) {
			return false
		}
		var counts = make(map[string]int, len(vs))
		for _, v := range vs {
			counts[v]++
		}
		for _, v := range ovs {
			if counts[v] == 0 {
				return false
			}
			counts[v]--
		}
	}
	return true
}
