// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() *Record {
	return MakeRecord(func(r *Record) {
		tags := NewArray()
		tags.Add(String("a"))
		tags.Add(String("b"))
		r.Set("tags", tags)
		lookup := NewMap()
		lookup.Put(Number(1), Bool(true))
		lookup.Put(String("two"), Null())
		r.Set("lookup", lookup)
		r.Set("empty", NewSet())
		r.Set("gone", Absent())
	})
}

func TestPathApply(t *testing.T) {
	root := sampleRecord()
	assert.Equal(t, "b", NewPath().Field("tags").Entry(1).Apply(root).AsString())
	assert.True(t, NewPath().Field("lookup").Key(Number(1)).Apply(root).AsBool())
	assert.Equal(t, NULL, NewPath().Field("lookup").Key(String("two")).Apply(root).Type())
	assert.False(t, NewPath().Field("lookup").Key(Number(2)).Apply(root).Valid())
	assert.False(t, NewPath().Field("nope").Entry(0).Apply(root).Valid())
	assert.Equal(t, root, NewPath().Apply(root))
}

func TestPathString(t *testing.T) {
	p := NewPath().Field("lookup").Key(String("two"))
	assert.Equal(t, `.lookup{"two"}`, p.String())
	q := p.Clone().Trim(1).Field("tags").Entry(3)
	assert.Equal(t, ".lookup.tags[3]", q.String())
	assert.Equal(t, `.lookup{"two"}`, p.String())
	assert.Equal(t, 0, p.Trim(5).Len())
}

func TestWalk(t *testing.T) {
	var paths []string
	var types []Type
	Walk(sampleRecord(), func(path *Path, v Value) {
		paths = append(paths, path.String())
		types = append(types, v.Type())
	})
	assert.Equal(t, []string{".tags[0]", ".tags[1]", ".lookup{1}", `.lookup{"two"}`, ".empty", ".gone"}, paths)
	assert.Equal(t, []Type{STRING, STRING, BOOL, NULL, SET, ABSENT}, types)
}
