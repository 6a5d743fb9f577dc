// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

// Map is an ordered key/value association. Keys are unique under Equal and
// keep the position where they were first introduced.
type Map struct {
	base
	keys  []Value
	vals  []Value
	index index
}

func NewMap() *Map { return &Map{} }

func (*Map) Type() Type { return MAP }

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Has(key Value) bool {
	return m.index.find(m.keys, key) >= 0
}

func (m *Map) Get(key Value) Value {
	if pos := m.index.find(m.keys, key); pos >= 0 {
		return m.vals[pos]
	}
	return Missing
}

func (m *Map) EachPair(f func(key, value Value)) {
	for i, k := range m.keys {
		f(k, m.vals[i])
	}
}

// Put associates key with value. A repeated key overwrites the earlier value in
// place. Put returns false if the key was already present.
func (m *Map) Put(key, value Value) bool {
	if !key.Valid() {
		return false
	}
	if pos := m.index.find(m.keys, key); pos >= 0 {
		m.vals[pos] = value
		return false
	}
	m.index.add(key, len(m.keys))
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
	return true
}
