// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

type Array struct {
	base
	value []Value
}

func NewArray() *Array { return &Array{} }

func (*Array) Type() Type { return ARRAY }

func (arr *Array) Len() int { return len(arr.value) }

func (arr *Array) Entry(index int) Value {
	if index >= 0 && index < len(arr.value) {
		return arr.value[index]
	}
	return Missing
}

func (arr *Array) EachEntry(f func(index int, value Value)) {
	for i, x := range arr.value {
		f(i, x)
	}
}

func (arr *Array) Add(value Value) Value {
	arr.value = append(arr.value, value)
	return value
}
