// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package bridge

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

var (
	undefinedType  = reflect.TypeFor[UndefinedType]()
	nullType       = reflect.TypeFor[NullType]()
	jsonNumberType = reflect.TypeFor[json.Number]()
)

// Scalar converts a single host scalar. Aggregates are rejected; use Convert
// for those.
func Scalar(x any) (value.Value, error) {
	c := newConverter()
	rv := c.unwrap(reflect.ValueOf(x))
	if v, ok, err := c.scalar(rv); ok || err != nil {
		return v, err
	}
	return nil, c.unsupported(rv)
}

// scalar returns ok=false when rv is not a scalar, leaving the decision to the
// caller.
func (c *converter) scalar(rv reflect.Value) (value.Value, bool, error) {
	if !rv.IsValid() {
		return value.Null(), true, nil
	}
	switch rv.Type() {
	case undefinedType:
		return value.Absent(), true, nil
	case nullType:
		return value.Null(), true, nil
	case jsonNumberType:
		v, err := jsonNumber(json.Number(rv.String()))
		if err != nil {
			return nil, true, &Error{Kind: UnsupportedType, Path: c.path.String(), Type: rv.Type().String(), Err: err}
		}
		return v, true, nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return value.Bool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Integer(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return value.Number(float64(u)), true, nil
		}
		return value.Integer(int64(u)), true, nil
	case reflect.Float32, reflect.Float64:
		return value.Number(rv.Float()), true, nil
	case reflect.String:
		return value.String(rv.String()), true, nil
	case reflect.Complex64, reflect.Complex128, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Uintptr:
		return nil, true, c.unsupported(rv)
	}
	return nil, false, nil
}

func jsonNumber(n json.Number) (value.Value, error) {
	if i, err := n.Int64(); err == nil {
		return value.Integer(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return value.Number(f), nil
}
