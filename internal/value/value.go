// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package value is the tagged value model handed across the host/script boundary.
//
// Every value reports its Type; accessors for other variants return zero values,
// so callers must branch on Type before reading a payload.
package value

var (
	absent  Value = &absentValue{}
	null    Value = &nullValue{}
	Missing Value = &missingValue{}
)

type Value interface {
	Valid() bool
	Type() Type
	AsBool() bool
	AsLong() int64
	AsDouble() float64
	IsInteger() bool
	AsString() string
	Len() int
	Entry(index int) Value
	EachEntry(func(index int, value Value))
	Field(name string) Value
	EachField(func(name string, value Value))
	Has(key Value) bool
	Get(key Value) Value
	EachPair(func(key, value Value))
}

// base supplies the zero answers for every accessor. Concrete values embed it
// and override what applies to them.
type base struct{}

func (base) Valid() bool                              { return true }
func (base) AsBool() bool                             { return false }
func (base) AsLong() int64                            { return 0 }
func (base) AsDouble() float64                        { return 0 }
func (base) IsInteger() bool                          { return false }
func (base) AsString() string                         { return "" }
func (base) Len() int                                 { return 0 }
func (base) Entry(index int) Value                    { return Missing }
func (base) EachEntry(func(index int, value Value))   {}
func (base) Field(name string) Value                  { return Missing }
func (base) EachField(func(name string, value Value)) {}
func (base) Has(key Value) bool                       { return false }
func (base) Get(key Value) Value                      { return Missing }
func (base) EachPair(func(key, value Value))          {}

type absentValue struct{ base }

// Absent is the host-side "no value provided" state; it maps to undefined.
func Absent() Value              { return absent }
func (*absentValue) Type() Type { return ABSENT }

type nullValue struct{ base }

func Null() Value              { return null }
func (*nullValue) Type() Type { return NULL }

// missingValue is returned by lookups that found nothing. It is never stored.
type missingValue struct{ base }

func (*missingValue) Valid() bool { return false }
func (*missingValue) Type() Type  { return ABSENT }

func ToString(value Value) string { return ToJSON(value, true) }
