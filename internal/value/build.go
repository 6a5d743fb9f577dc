// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

// Builder is a Sink that assembles the streamed events into a Value.
// Aggregates are attached to their parent when closed, so set membership and
// map keys are decided on complete values.
type Builder struct {
	root  Value
	stack []frame
}

type frame struct {
	value  Value
	field  string
	key    Value
	hasKey bool
}

func (b *Builder) Result() Value {
	if b.root == nil || len(b.stack) > 0 {
		return Missing
	}
	return b.root
}

func (b *Builder) add(v Value) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := &b.stack[len(b.stack)-1]
	switch parent := top.value.(type) {
	case *Array:
		parent.Add(v)
	case *Set:
		parent.Add(v)
	case *Record:
		parent.Set(top.field, v)
	case *Map:
		if !top.hasKey {
			top.key, top.hasKey = v, true
			return
		}
		parent.Put(top.key, v)
		top.key, top.hasKey = nil, false
	}
}

func (b *Builder) push(v Value) { b.stack = append(b.stack, frame{value: v}) }

func (b *Builder) Absent()          { b.add(Absent()) }
func (b *Builder) Null()            { b.add(Null()) }
func (b *Builder) Bool(v bool)      { b.add(Bool(v)) }
func (b *Builder) Integer(v int64)  { b.add(Integer(v)) }
func (b *Builder) Double(v float64) { b.add(Number(v)) }
func (b *Builder) String(v string)  { b.add(String(v)) }
func (b *Builder) Array()           { b.push(NewArray()) }
func (b *Builder) Set()             { b.push(NewSet()) }
func (b *Builder) Map()             { b.push(NewMap()) }
func (b *Builder) Record()          { b.push(NewRecord()) }

func (b *Builder) Field(name string) {
	if len(b.stack) > 0 {
		b.stack[len(b.stack)-1].field = name
	}
}

func (b *Builder) End() {
	if len(b.stack) == 0 {
		return
	}
	done := b.stack[len(b.stack)-1].value
	b.stack = b.stack[:len(b.stack)-1]
	b.add(done)
}
