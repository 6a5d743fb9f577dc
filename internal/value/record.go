// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

// Record maps field names to values, keeping declaration order.
type Record struct {
	base
	names  []string
	vals   []Value
	byName map[string]int
}

func NewRecord() *Record {
	return &Record{byName: make(map[string]int)}
}

func (*Record) Type() Type { return RECORD }

func (r *Record) Len() int { return len(r.names) }

func (r *Record) Field(name string) Value {
	if pos, found := r.byName[name]; found {
		return r.vals[pos]
	}
	return Missing
}

func (r *Record) EachField(f func(name string, value Value)) {
	for i, name := range r.names {
		f(name, r.vals[i])
	}
}

// Names returns the field names in declaration order.
func (r *Record) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r *Record) Set(name string, value Value) Value {
	if pos, found := r.byName[name]; found {
		r.vals[pos] = value
		return value
	}
	r.byName[name] = len(r.names)
	r.names = append(r.names, name)
	r.vals = append(r.vals, value)
	return value
}

func MakeRecord(fill func(rec *Record)) *Record {
	rec := NewRecord()
	fill(rec)
	return rec
}
