// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package bridge converts host data into bridged values that can be handed to
// an embedded script runtime.
package bridge

// UndefinedType marks a value that was never provided. It bridges to Absent.
type UndefinedType struct{}

// NullType marks an explicitly empty value. It bridges to Null, as does a nil
// pointer, interface, map or slice.
type NullType struct{}

var (
	Undefined UndefinedType
	Null      NullType
)

// Optional holds a value that may not have been provided. The zero Optional is
// unset and bridges to Absent.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, set: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

func (o Optional[T]) IsSet() bool { return o.set }

func (o Optional[T]) lookup() (any, bool) { return o.value, o.set }

type optional interface {
	lookup() (any, bool)
}

// Field is a named record field. Fields keeps the declared order, which a Go
// map cannot.
type Field struct {
	Name  string
	Value any
}

type Fields []Field

// Pair is a single map entry. Pairs may repeat a key; the last value wins while
// the key keeps the position where it was first seen.
type Pair struct {
	Key   any
	Value any
}

type Pairs []Pair

// Set is a host set literal. Duplicates are allowed and collapse on conversion.
type Set []any
