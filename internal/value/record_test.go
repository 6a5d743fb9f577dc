// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord(t *testing.T) {
	rec := NewRecord()
	rec.Set("u", Absent())
	rec.Set("b", Bool(true))
	rec.Set("n", Null())

	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, []string{"u", "b", "n"}, rec.Names())
	checkLeaf(t, rec.Field("u"), expectLeaf{mytype: ABSENT})
	checkLeaf(t, rec.Field("b"), expectLeaf{mytype: BOOL, boolVal: true})
	checkLeaf(t, rec.Field("n"), expectLeaf{mytype: NULL})
	checkLeaf(t, rec.Field("x"), expectLeaf{invalid: true, mytype: ABSENT})

	rec.Set("u", Number(1))
	assert.Equal(t, []string{"u", "b", "n"}, rec.Names())
	assert.Equal(t, int64(1), rec.Field("u").AsLong())
}
