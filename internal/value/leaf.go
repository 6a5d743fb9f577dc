// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import "math"

const (
	// MaxSafeInteger is the largest magnitude where every integer has an exact double.
	MaxSafeInteger = 1 << 53

	// ShortStringMax is the longest string, in bytes, stored inline.
	ShortStringMax = 7
)

type boolValue struct {
	base
	value bool
}

var (
	trueValue  Value = &boolValue{value: true}
	falseValue Value = &boolValue{value: false}
)

func Bool(v bool) Value {
	if v {
		return trueValue
	}
	return falseValue
}

func (*boolValue) Type() Type     { return BOOL }
func (v *boolValue) AsBool() bool { return v.value }

type integerValue struct {
	base
	value int64
}

func (*integerValue) Type() Type          { return NUMBER }
func (*integerValue) IsInteger() bool     { return true }
func (v *integerValue) AsLong() int64     { return v.value }
func (v *integerValue) AsDouble() float64 { return float64(v.value) }

type doubleValue struct {
	base
	value float64
}

func (*doubleValue) Type() Type          { return NUMBER }
func (v *doubleValue) AsLong() int64     { return int64(v.value) }
func (v *doubleValue) AsDouble() float64 { return v.value }

// Number classifies v. Integral values within the safe integer range, the
// boundary included, are kept as exact integers. Everything else, including
// negative zero, stays a double.
func Number(v float64) Value {
	if v == math.Trunc(v) && math.Abs(v) <= MaxSafeInteger && !(v == 0 && math.Signbit(v)) {
		return &integerValue{value: int64(v)}
	}
	return &doubleValue{value: v}
}

// Integer returns an exact integer when v is within the safe range and the
// nearest double otherwise.
func Integer(v int64) Value {
	if v >= -MaxSafeInteger && v <= MaxSafeInteger {
		return &integerValue{value: v}
	}
	return &doubleValue{value: float64(v)}
}

type shortString struct {
	base
	size uint8
	data [ShortStringMax]byte
}

func (*shortString) Type() Type         { return STRING }
func (v *shortString) AsString() string { return string(v.data[:v.size]) }

type longString struct {
	base
	value string
}

func (*longString) Type() Type         { return STRING }
func (v *longString) AsString() string { return v.value }

func String(v string) Value {
	if len(v) <= ShortStringMax {
		s := &shortString{size: uint8(len(v))}
		copy(s.data[:], v)
		return s
	}
	return &longString{value: v}
}

// IsShort returns true if v is a string stored inline.
func IsShort(v Value) bool {
	_, ok := v.(*shortString)
	return ok
}
