// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package bridge

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// hint selects which collection a nested value becomes. It is set with tag
// options, e.g. `bridge:"tags,set"`.
type hint int

const (
	hintNone hint = iota
	hintArray
	hintSet
	hintMap
	hintObject
)

var hintNames = map[string]hint{
	"array":  hintArray,
	"set":    hintSet,
	"map":    hintMap,
	"object": hintObject,
}

type fieldInfo struct {
	name  string
	index []int
	hint  hint
}

type structInfo struct {
	fields []fieldInfo
	opaque bool // only unexported fields, e.g. time.Time
	err    error
}

var structCache sync.Map // map[reflect.Type]*structInfo

func structFields(t reflect.Type) *structInfo {
	if cached, ok := structCache.Load(t); ok {
		return cached.(*structInfo)
	}
	info := &structInfo{}
	var exported int
	var tagged [][]int
	seen := make(map[string]bool)
	for _, f := range reflect.VisibleFields(t) {
		if slices.ContainsFunc(tagged, func(prefix []int) bool { return isPrefix(prefix, f.Index) }) {
			continue
		}
		if !f.IsExported() && !f.Anonymous {
			continue
		}
		name, h, skip, err := parseTag(f)
		if err != nil {
			info.err = err
			break
		}
		if f.IsExported() {
			exported++
		}
		if skip {
			continue
		}
		if f.Anonymous && isStruct(f.Type) {
			if name == "" {
				continue // promoted fields are visited on their own
			}
			tagged = append(tagged, f.Index)
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if seen[name] {
			info.err = fmt.Errorf("duplicate field name %q in %s", name, t)
			break
		}
		seen[name] = true
		info.fields = append(info.fields, fieldInfo{name: name, index: f.Index, hint: h})
	}
	info.opaque = t.NumField() > 0 && exported == 0
	actual, _ := structCache.LoadOrStore(t, info)
	return actual.(*structInfo)
}

func parseTag(f reflect.StructField) (name string, h hint, skip bool, err error) {
	tag, ok := f.Tag.Lookup("bridge")
	if !ok {
		jsonTag := f.Tag.Get("json")
		if jsonTag == "-" {
			return "", hintNone, true, nil
		}
		name, _, _ = strings.Cut(jsonTag, ",")
		return name, hintNone, false, nil
	}
	if tag == "-" {
		return "", hintNone, true, nil
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		var found bool
		if h, found = hintNames[opt]; !found {
			return "", hintNone, false, fmt.Errorf("unknown option %q in tag of field %s", opt, f.Name)
		}
	}
	return parts[0], h, false, nil
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func isPrefix(prefix, index []int) bool {
	return len(index) > len(prefix) && slices.Equal(prefix, index[:len(prefix)])
}
