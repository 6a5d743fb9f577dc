// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package jsrt

import (
	"errors"

	"github.com/dop251/goja"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

// Export builds the runtime form of v with the runtime's own constructors:
// records become plain objects, arrays Array, sets Set and maps Map. Absent
// record fields are kept as own properties holding undefined.
func (r *Runtime) Export(v value.Value) (goja.Value, error) {
	if !v.Valid() {
		return nil, errors.New("cannot export an invalid value")
	}
	e := &exporter{rt: r}
	value.Emit(v, e)
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

type exportFrame struct {
	kind  value.Type
	items []any
	obj   *goja.Object
	field string
}

// exporter is a value.Sink producing goja values.
type exporter struct {
	rt     *Runtime
	stack  []*exportFrame
	result goja.Value
	err    error
}

func (e *exporter) add(v goja.Value) {
	if len(e.stack) == 0 {
		e.result = v
		return
	}
	top := e.stack[len(e.stack)-1]
	if top.kind == value.RECORD {
		// an own data property, so that a field named __proto__ does not
		// replace the prototype
		if err := top.obj.DefineDataProperty(top.field, v, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_TRUE); err != nil && e.err == nil {
			e.err = err
		}
		return
	}
	top.items = append(top.items, v)
}

func (e *exporter) push(kind value.Type) *exportFrame {
	f := &exportFrame{kind: kind}
	e.stack = append(e.stack, f)
	return f
}

func (e *exporter) Absent()          { e.add(goja.Undefined()) }
func (e *exporter) Null()            { e.add(goja.Null()) }
func (e *exporter) Bool(v bool)      { e.add(e.rt.vm.ToValue(v)) }
func (e *exporter) Integer(v int64)  { e.add(e.rt.vm.ToValue(v)) }
func (e *exporter) Double(v float64) { e.add(e.rt.vm.ToValue(v)) }
func (e *exporter) String(v string)  { e.add(e.rt.vm.ToValue(v)) }
func (e *exporter) Array()           { e.push(value.ARRAY) }
func (e *exporter) Set()             { e.push(value.SET) }
func (e *exporter) Map()             { e.push(value.MAP) }
func (e *exporter) Record()          { e.push(value.RECORD).obj = e.rt.vm.NewObject() }

func (e *exporter) Field(name string) {
	if len(e.stack) > 0 {
		e.stack[len(e.stack)-1].field = name
	}
}

func (e *exporter) End() {
	if len(e.stack) == 0 {
		return
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	vm := e.rt.vm
	switch top.kind {
	case value.RECORD:
		e.add(top.obj)
	case value.ARRAY:
		e.add(vm.NewArray(top.items...))
	case value.SET:
		e.add(e.construct(e.rt.setCtor, vm.NewArray(top.items...)))
	case value.MAP:
		entries := make([]any, 0, len(top.items)/2)
		for i := 0; i+1 < len(top.items); i += 2 {
			entries = append(entries, vm.NewArray(top.items[i], top.items[i+1]))
		}
		e.add(e.construct(e.rt.mapCtor, vm.NewArray(entries...)))
	}
}

func (e *exporter) construct(ctor goja.Value, items *goja.Object) goja.Value {
	obj, err := e.rt.vm.New(ctor, items)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return goja.Undefined()
	}
	return obj
}
