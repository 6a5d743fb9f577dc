// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package bridge

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

const maxDepth = 1000

var (
	optionalType    = reflect.TypeFor[optional]()
	fieldsType      = reflect.TypeFor[Fields]()
	pairsType       = reflect.TypeFor[Pairs]()
	setType         = reflect.TypeFor[Set]()
	emptyStructType = reflect.TypeFor[struct{}]()

	errTooDeep = fmt.Errorf("nesting exceeds %d levels", maxDepth)
)

// ConvertObject converts a struct, a Fields list or a map with string keys into
// a record. Every exported struct field is present in the result; an unset
// Optional or Undefined field is kept as Absent.
func ConvertObject(x any) (*value.Record, error) {
	c := newConverter()
	v, err := finish(c.record(c.unwrap(reflect.ValueOf(x))))
	if err != nil {
		return nil, err
	}
	return v.(*value.Record), nil
}

// ConvertArray converts a slice or array, keeping length and order.
func ConvertArray(x any) (*value.Array, error) {
	c := newConverter()
	v, err := finish(c.array(c.unwrap(reflect.ValueOf(x))))
	if err != nil {
		return nil, err
	}
	return v.(*value.Array), nil
}

// ConvertSet converts a slice, array, Set or a map of members (bool or
// struct{} values) into a set. Duplicates collapse under value equality.
func ConvertSet(x any) (*value.Set, error) {
	c := newConverter()
	v, err := finish(c.set(c.unwrap(reflect.ValueOf(x))))
	if err != nil {
		return nil, err
	}
	return v.(*value.Set), nil
}

// ConvertMap converts Pairs, Fields or a Go map into a map. Go maps are
// converted in key order: numbers first, then strings, then everything else.
func ConvertMap(x any) (*value.Map, error) {
	c := newConverter()
	v, err := finish(c.mapping(c.unwrap(reflect.ValueOf(x))))
	if err != nil {
		return nil, err
	}
	return v.(*value.Map), nil
}

// Convert picks the conversion from the host type: scalars by kind, structs and
// Fields to records, slices to arrays, Set to sets and Go maps and Pairs to maps.
func Convert(x any) (value.Value, error) {
	return finish(newConverter().convert(reflect.ValueOf(x), hintNone))
}

// finish checks the invariants of a converted value. Nothing is returned unless
// the whole conversion succeeded.
func finish(v value.Value, err error) (value.Value, error) {
	if err != nil {
		return nil, err
	}
	if err := value.Verify(v); err != nil {
		return nil, &Error{Kind: ContractViolation, Err: err}
	}
	return v, nil
}

type converter struct {
	path  *value.Path
	depth int
}

func newConverter() *converter {
	return &converter{path: value.NewPath()}
}

func (c *converter) unsupported(rv reflect.Value) error {
	typ := "nil"
	if rv.IsValid() {
		typ = rv.Type().String()
	}
	return &Error{Kind: UnsupportedType, Path: c.path.String(), Type: typ}
}

func (c *converter) violation(err error) error {
	return &Error{Kind: ContractViolation, Path: c.path.String(), Err: err}
}

// unwrap follows pointers, interfaces and Optional values. An invalid result
// means nil.
func (c *converter) unwrap(rv reflect.Value) reflect.Value {
	for rv.IsValid() {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return reflect.Value{}
			}
			rv = rv.Elem()
			continue
		}
		if rv.Kind() == reflect.Struct && rv.Type().Implements(optionalType) && rv.CanInterface() {
			v, set := rv.Interface().(optional).lookup()
			if !set {
				return reflect.ValueOf(Undefined)
			}
			rv = reflect.ValueOf(v)
			continue
		}
		break
	}
	return rv
}

func isMarker(rv reflect.Value) bool {
	return !rv.IsValid() || rv.Type() == undefinedType || rv.Type() == nullType
}

func (c *converter) convert(rv reflect.Value, h hint) (value.Value, error) {
	rv = c.unwrap(rv)
	if v, ok, err := c.scalar(rv); ok || err != nil {
		return v, err
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
		return value.Null(), nil
	}
	if c.depth >= maxDepth {
		return nil, &Error{Kind: UnsupportedType, Path: c.path.String(), Type: rv.Type().String(), Err: errTooDeep}
	}
	c.depth++
	defer func() { c.depth-- }()
	switch h {
	case hintArray:
		return c.array(rv)
	case hintSet:
		return c.set(rv)
	case hintMap:
		return c.mapping(rv)
	case hintObject:
		return c.record(rv)
	}
	switch rv.Type() {
	case fieldsType:
		return c.record(rv)
	case pairsType:
		return c.mapping(rv)
	case setType:
		return c.set(rv)
	}
	switch rv.Kind() {
	case reflect.Struct:
		return c.record(rv)
	case reflect.Slice, reflect.Array:
		return c.array(rv)
	case reflect.Map:
		return c.mapping(rv)
	}
	return nil, c.unsupported(rv)
}

func (c *converter) field(rec *value.Record, name string, rv reflect.Value, h hint) error {
	if rec.Field(name).Valid() {
		return c.violation(fmt.Errorf("duplicate field name %q", name))
	}
	c.path.Field(name)
	v, err := c.convert(rv, h)
	c.path.Trim(1)
	if err != nil {
		return err
	}
	rec.Set(name, v)
	return nil
}

func (c *converter) record(rv reflect.Value) (value.Value, error) {
	if isMarker(rv) {
		return nil, c.unsupported(rv)
	}
	rec := value.NewRecord()
	switch {
	case rv.Type() == fieldsType:
		for i := range rv.Len() {
			f := rv.Index(i).Interface().(Field)
			if err := c.field(rec, f.Name, reflect.ValueOf(f.Value), hintNone); err != nil {
				return nil, err
			}
		}
	case rv.Kind() == reflect.Struct:
		info := structFields(rv.Type())
		if info.err != nil {
			return nil, c.violation(info.err)
		}
		if info.opaque {
			return nil, c.unsupported(rv)
		}
		for _, f := range info.fields {
			fv, err := rv.FieldByIndexErr(f.index)
			if err != nil {
				fv = reflect.ValueOf(Undefined) // behind a nil embedded pointer
			}
			if err := c.field(rec, f.name, fv, f.hint); err != nil {
				return nil, err
			}
		}
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
		for _, k := range keys {
			if err := c.field(rec, k.String(), rv.MapIndex(k), hintNone); err != nil {
				return nil, err
			}
		}
	default:
		return nil, c.unsupported(rv)
	}
	return rec, nil
}

func isSequence(rv reflect.Value) bool {
	if isMarker(rv) || rv.Type() == fieldsType || rv.Type() == pairsType {
		return false
	}
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func (c *converter) array(rv reflect.Value) (value.Value, error) {
	if !isSequence(rv) {
		return nil, c.unsupported(rv)
	}
	arr := value.NewArray()
	for i := range rv.Len() {
		c.path.Entry(i)
		v, err := c.convert(rv.Index(i), hintNone)
		c.path.Trim(1)
		if err != nil {
			return nil, err
		}
		arr.Add(v)
	}
	return arr, nil
}

func (c *converter) set(rv reflect.Value) (value.Value, error) {
	if !isMarker(rv) && rv.Kind() == reflect.Map {
		return c.memberMap(rv)
	}
	if !isSequence(rv) {
		return nil, c.unsupported(rv)
	}
	set := value.NewSet()
	for i := range rv.Len() {
		c.path.Entry(i)
		v, err := c.convert(rv.Index(i), hintNone)
		c.path.Trim(1)
		if err != nil {
			return nil, err
		}
		set.Add(v)
	}
	return set, nil
}

// memberMap converts map[K]bool and map[K]struct{}. Keys mapped to false are
// not members.
func (c *converter) memberMap(rv reflect.Value) (value.Value, error) {
	elem := rv.Type().Elem()
	if elem.Kind() != reflect.Bool && elem != emptyStructType {
		return nil, c.unsupported(rv)
	}
	entries, err := c.mapKeys(rv)
	if err != nil {
		return nil, err
	}
	set := value.NewSet()
	for _, e := range entries {
		if elem.Kind() == reflect.Bool && !e.val.Bool() {
			continue
		}
		set.Add(e.key)
	}
	return set, nil
}

type mapEntry struct {
	key value.Value
	val reflect.Value
}

// mapKeys converts the keys of a Go map and sorts them, so that the result does
// not depend on map iteration order. Values are taken from the iterator since
// a NaN key can not be looked up again.
func (c *converter) mapKeys(rv reflect.Value) ([]mapEntry, error) {
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := c.convert(iter.Key(), hintNone)
		if err != nil {
			return nil, err
		}
		entries = append(entries, mapEntry{key: k, val: iter.Value()})
	}
	slices.SortStableFunc(entries, func(a, b mapEntry) int { return compareKeys(a.key, b.key) })
	return entries, nil
}

func (c *converter) put(m *value.Map, key value.Value, rv reflect.Value) error {
	c.path.Key(key)
	v, err := c.convert(rv, hintNone)
	c.path.Trim(1)
	if err != nil {
		return err
	}
	m.Put(key, v)
	return nil
}

func (c *converter) mapping(rv reflect.Value) (value.Value, error) {
	if isMarker(rv) {
		return nil, c.unsupported(rv)
	}
	m := value.NewMap()
	switch {
	case rv.Type() == pairsType:
		for i := range rv.Len() {
			p := rv.Index(i).Interface().(Pair)
			c.path.Entry(i)
			k, err := c.convert(reflect.ValueOf(p.Key), hintNone)
			c.path.Trim(1)
			if err != nil {
				return nil, err
			}
			if err := c.put(m, k, reflect.ValueOf(p.Value)); err != nil {
				return nil, err
			}
		}
	case rv.Type() == fieldsType:
		for i := range rv.Len() {
			f := rv.Index(i).Interface().(Field)
			if err := c.put(m, value.String(f.Name), reflect.ValueOf(f.Value)); err != nil {
				return nil, err
			}
		}
	case rv.Kind() == reflect.Map:
		entries, err := c.mapKeys(rv)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if err := c.put(m, e.key, e.val); err != nil {
				return nil, err
			}
		}
	default:
		return nil, c.unsupported(rv)
	}
	return m, nil
}

// AsError returns the bridge error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
