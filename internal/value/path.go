// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import (
	"fmt"
	"slices"
	"strings"
)

type Selector interface {
	Select(value Value) Value
	String() string
}

type selectEntry struct {
	idx int
}

func (s *selectEntry) Select(value Value) Value { return value.Entry(s.idx) }
func (s *selectEntry) String() string           { return fmt.Sprintf("[%d]", s.idx) }

type selectField struct {
	name string
}

func (s *selectField) Select(value Value) Value { return value.Field(s.name) }
func (s *selectField) String() string           { return "." + s.name }

type selectKey struct {
	key Value
}

func (s *selectKey) Select(value Value) Value { return value.Get(s.key) }
func (s *selectKey) String() string           { return "{" + ToJSON(s.key, true) + "}" }

// Path locates a value inside nested aggregates. It renders as .field, [index]
// and {key} segments, e.g. .tags[2] or .lookup{1}.
type Path struct {
	list []Selector
}

func NewPath() *Path {
	return &Path{}
}

func (p *Path) String() string {
	var sb strings.Builder
	for _, selector := range p.list {
		sb.WriteString(selector.String())
	}
	return sb.String()
}

func (p *Path) Len() int {
	return len(p.list)
}

func (p *Path) Entry(idx int) *Path {
	p.list = append(p.list, &selectEntry{idx})
	return p
}

func (p *Path) Field(name string) *Path {
	p.list = append(p.list, &selectField{name})
	return p
}

func (p *Path) Key(key Value) *Path {
	p.list = append(p.list, &selectKey{key})
	return p
}

func (p *Path) Trim(n int) *Path {
	end := len(p.list) - n
	if end < 0 {
		end = 0
	}
	p.list = p.list[:end]
	return p
}

func (p *Path) Apply(value Value) Value {
	res := value
	for _, s := range p.list {
		res = s.Select(res)
	}
	return res
}

func (p *Path) Clone() *Path {
	return &Path{slices.Clone(p.list)}
}

// Walk calls handle for every non-aggregate value below root, and for empty
// aggregates, with the path leading to it. The path is reused between calls;
// Clone it to keep it.
func Walk(root Value, handle func(path *Path, value Value)) {
	path := NewPath()
	var process func(value Value)
	process = func(value Value) {
		if !value.Type().IsAggregate() || value.Len() == 0 {
			handle(path, value)
			return
		}
		switch value.Type() {
		case ARRAY, SET:
			value.EachEntry(func(idx int, v Value) {
				path.Entry(idx)
				process(v)
				path.Trim(1)
			})
		case MAP:
			value.EachPair(func(k, v Value) {
				path.Key(k)
				process(v)
				path.Trim(1)
			})
		case RECORD:
			value.EachField(func(name string, v Value) {
				path.Field(name)
				process(v)
				path.Trim(1)
			})
		}
	}
	process(root)
}
