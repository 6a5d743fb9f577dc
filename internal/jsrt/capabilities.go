// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package jsrt

import (
	"fmt"

	"github.com/dop251/goja"
)

// OrderedSequence is what an exported array must provide.
type OrderedSequence interface {
	Len() int
	Index(i int) goja.Value
}

// UniqueCollection is what an exported set must provide.
type UniqueCollection interface {
	Size() int
	Has(v goja.Value) bool
}

// KeyAssociation is what an exported map must provide. Get returns undefined
// for a key that was never set.
type KeyAssociation interface {
	Size() int
	Get(key goja.Value) goja.Value
}

type sequence struct {
	obj *goja.Object
}

func (s *sequence) Len() int { return int(s.obj.Get("length").ToInteger()) }

func (s *sequence) Index(i int) goja.Value {
	if v := index(s.obj, i); v != nil {
		return v
	}
	return goja.Undefined()
}

type collection struct {
	obj *goja.Object
	has goja.Callable
}

func (c *collection) Size() int { return int(c.obj.Get("size").ToInteger()) }

func (c *collection) Has(v goja.Value) bool {
	res, err := c.has(c.obj, v)
	return err == nil && res.ToBoolean()
}

type association struct {
	obj *goja.Object
	get goja.Callable
}

func (a *association) Size() int { return int(a.obj.Get("size").ToInteger()) }

func (a *association) Get(key goja.Value) goja.Value {
	res, err := a.get(a.obj, key)
	if err != nil || res == nil {
		return goja.Undefined()
	}
	return res
}

func (r *Runtime) expect(v goja.Value, want string) (*goja.Object, error) {
	if v == nil {
		return nil, fmt.Errorf("expected %s, got nothing", want)
	}
	res, err := r.classify(goja.Undefined(), v)
	if err != nil {
		return nil, err
	}
	if kind := res.String(); kind != want {
		return nil, fmt.Errorf("expected %s, got %s", want, kind)
	}
	return v.ToObject(r.vm), nil
}

func (r *Runtime) method(obj *goja.Object, name string) (goja.Callable, error) {
	fn, ok := goja.AssertFunction(obj.Get(name))
	if !ok {
		return nil, fmt.Errorf("%s has no method %s", obj.ClassName(), name)
	}
	return fn, nil
}

// Sequence views a runtime Array through OrderedSequence.
func (r *Runtime) Sequence(v goja.Value) (OrderedSequence, error) {
	obj, err := r.expect(v, "array")
	if err != nil {
		return nil, err
	}
	return &sequence{obj: obj}, nil
}

// Collection views a runtime Set through UniqueCollection.
func (r *Runtime) Collection(v goja.Value) (UniqueCollection, error) {
	obj, err := r.expect(v, "set")
	if err != nil {
		return nil, err
	}
	has, err := r.method(obj, "has")
	if err != nil {
		return nil, err
	}
	return &collection{obj: obj, has: has}, nil
}

// Association views a runtime Map through KeyAssociation.
func (r *Runtime) Association(v goja.Value) (KeyAssociation, error) {
	obj, err := r.expect(v, "map")
	if err != nil {
		return nil, err
	}
	get, err := r.method(obj, "get")
	if err != nil {
		return nil, err
	}
	return &association{obj: obj, get: get}, nil
}
