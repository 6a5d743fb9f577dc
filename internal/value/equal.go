// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import "math"

// Equal compares values the way set membership and map keys do: numbers by
// numeric value with NaN equal to NaN and +0 equal to -0, strings by content and
// aggregates structurally. Missing is never equal to anything.
func Equal(a, b Value) bool {
	if !a.Valid() || !b.Valid() || a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case ABSENT, NULL:
		return true
	case BOOL:
		return a.AsBool() == b.AsBool()
	case NUMBER:
		if a.IsInteger() && b.IsInteger() {
			return a.AsLong() == b.AsLong()
		}
		x, y := a.AsDouble(), b.AsDouble()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case STRING:
		return a.AsString() == b.AsString()
	case ARRAY:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !Equal(a.Entry(i), b.Entry(i)) {
				return false
			}
		}
		return true
	case SET:
		if a.Len() != b.Len() {
			return false
		}
		equal := true
		a.EachEntry(func(_ int, v Value) {
			equal = equal && b.Has(v)
		})
		return equal
	case MAP:
		if a.Len() != b.Len() {
			return false
		}
		equal := true
		a.EachPair(func(k, v Value) {
			equal = equal && Equal(v, b.Get(k))
		})
		return equal
	case RECORD:
		if a.Len() != b.Len() {
			return false
		}
		equal := true
		a.EachField(func(name string, v Value) {
			equal = equal && Equal(v, b.Field(name))
		})
		return equal
	}
	return false
}

type scalarKey struct {
	kind   Type
	flag   bool
	number float64
	text   string
}

// keyOf returns a comparable key for scalar values, so that sets and maps can
// index them. Aggregates have no key and are compared with Equal.
func keyOf(v Value) (scalarKey, bool) {
	if !v.Valid() {
		return scalarKey{}, false
	}
	switch t := v.Type(); t {
	case ABSENT, NULL:
		return scalarKey{kind: t}, true
	case BOOL:
		return scalarKey{kind: t, flag: v.AsBool()}, true
	case NUMBER:
		n := v.AsDouble()
		if math.IsNaN(n) {
			return scalarKey{kind: t, flag: true}, true
		}
		if n == 0 {
			n = 0 // folds -0 into +0
		}
		return scalarKey{kind: t, number: n}, true
	case STRING:
		return scalarKey{kind: t, text: v.AsString()}, true
	}
	return scalarKey{}, false
}

// index keeps positions of the values in a set or the keys of a map.
type index struct {
	scalars    map[scalarKey]int
	aggregates []int
}

func (x *index) find(items []Value, v Value) int {
	if k, ok := keyOf(v); ok {
		if pos, found := x.scalars[k]; found {
			return pos
		}
		return -1
	}
	for _, pos := range x.aggregates {
		if Equal(items[pos], v) {
			return pos
		}
	}
	return -1
}

func (x *index) add(v Value, pos int) {
	if k, ok := keyOf(v); ok {
		if x.scalars == nil {
			x.scalars = make(map[scalarKey]int)
		}
		x.scalars[k] = pos
		return
	}
	x.aggregates = append(x.aggregates, pos)
}
