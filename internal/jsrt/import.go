// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package jsrt

import (
	"fmt"
	"strconv"

	"github.com/dop251/goja"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

const maxDepth = 1000

// Import reads a runtime value back into a bridged value. Functions, symbols,
// dates and other objects without a bridged form are rejected with an
// UnsupportedType error.
func (r *Runtime) Import(v goja.Value) (value.Value, error) {
	im := &importer{rt: r, path: value.NewPath()}
	var b value.Builder
	if err := im.emit(v, &b); err != nil {
		return nil, err
	}
	return b.Result(), nil
}

type importer struct {
	rt    *Runtime
	path  *value.Path
	depth int
}

func (im *importer) unsupported(kind string, err error) error {
	return &bridge.Error{Kind: bridge.UnsupportedType, Path: im.path.String(), Type: kind, Err: err}
}

func (im *importer) kind(v goja.Value) (string, error) {
	res, err := im.rt.classify(goja.Undefined(), v)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// list turns a Set or Map into an array with Array.from.
func (im *importer) list(v goja.Value) (*goja.Object, int, error) {
	res, err := im.rt.entries(goja.Undefined(), v)
	if err != nil {
		return nil, 0, err
	}
	obj := res.ToObject(im.rt.vm)
	return obj, int(obj.Get("length").ToInteger()), nil
}

func index(obj *goja.Object, i int) goja.Value {
	return obj.Get(strconv.Itoa(i))
}

func (im *importer) emit(v goja.Value, sink value.Sink) error {
	if v == nil || goja.IsUndefined(v) {
		sink.Absent()
		return nil
	}
	if goja.IsNull(v) {
		sink.Null()
		return nil
	}
	kind, err := im.kind(v)
	if err != nil {
		return err
	}
	switch kind {
	case "boolean":
		sink.Bool(v.ToBoolean())
		return nil
	case "number":
		switch n := v.Export().(type) {
		case int64:
			sink.Integer(n)
		default:
			sink.Double(v.ToFloat())
		}
		return nil
	case "string":
		sink.String(v.String())
		return nil
	case "array", "set", "map", "object":
		if im.depth >= maxDepth {
			return im.unsupported(kind, fmt.Errorf("nesting exceeds %d levels", maxDepth))
		}
		im.depth++
		defer func() { im.depth-- }()
	default:
		return im.unsupported(kind, nil)
	}
	obj := v.ToObject(im.rt.vm)
	switch kind {
	case "array":
		sink.Array()
		for i := range int(obj.Get("length").ToInteger()) {
			im.path.Entry(i)
			err := im.emit(index(obj, i), sink)
			im.path.Trim(1)
			if err != nil {
				return err
			}
		}
	case "set":
		items, n, err := im.list(v)
		if err != nil {
			return err
		}
		sink.Set()
		for i := range n {
			im.path.Entry(i)
			err := im.emit(index(items, i), sink)
			im.path.Trim(1)
			if err != nil {
				return err
			}
		}
	case "map":
		entries, n, err := im.list(v)
		if err != nil {
			return err
		}
		sink.Map()
		for i := range n {
			entry := index(entries, i).ToObject(im.rt.vm)
			if err := im.pair(entry, sink); err != nil {
				return err
			}
		}
	case "object":
		sink.Record()
		for _, key := range obj.Keys() {
			sink.Field(key)
			im.path.Field(key)
			err := im.emit(obj.Get(key), sink)
			im.path.Trim(1)
			if err != nil {
				return err
			}
		}
	}
	sink.End()
	return nil
}

// pair imports a map key on its own first, so that the value can be located
// by key in error messages.
func (im *importer) pair(entry *goja.Object, sink value.Sink) error {
	var kb value.Builder
	if err := im.emit(index(entry, 0), &kb); err != nil {
		return err
	}
	key := kb.Result()
	value.Emit(key, sink)
	im.path.Key(key)
	err := im.emit(index(entry, 1), sink)
	im.path.Trim(1)
	return err
}
