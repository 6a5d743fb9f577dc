// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

// Set holds distinct values. Entries are kept in insertion order so that
// iteration is deterministic, but the order carries no meaning.
type Set struct {
	base
	items []Value
	index index
}

func NewSet() *Set { return &Set{} }

func (*Set) Type() Type { return SET }

func (s *Set) Len() int { return len(s.items) }

func (s *Set) Entry(index int) Value {
	if index >= 0 && index < len(s.items) {
		return s.items[index]
	}
	return Missing
}

func (s *Set) EachEntry(f func(index int, value Value)) {
	for i, x := range s.items {
		f(i, x)
	}
}

func (s *Set) Has(v Value) bool {
	return s.index.find(s.items, v) >= 0
}

// Add inserts v unless an equal value is already present. It returns false for
// duplicates.
func (s *Set) Add(v Value) bool {
	if !v.Valid() || s.Has(v) {
		return false
	}
	s.index.add(v, len(s.items))
	s.items = append(s.items, v)
	return true
}
