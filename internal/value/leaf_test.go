// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type expectLeaf struct {
	invalid   bool
	mytype    Type
	boolVal   bool
	longVal   int64
	doubleVal float64
	integer   bool
	stringVal string
}

func checkLeaf(t *testing.T, value Value, expect expectLeaf) {
	t.Helper()
	assert.Equal(t, !expect.invalid, value.Valid())
	assert.Equal(t, expect.mytype, value.Type())
	assert.Equal(t, expect.boolVal, value.AsBool())
	assert.Equal(t, expect.longVal, value.AsLong())
	assert.Equal(t, expect.doubleVal, value.AsDouble())
	assert.Equal(t, expect.integer, value.IsInteger())
	assert.Equal(t, expect.stringVal, value.AsString())
	assert.Equal(t, 0, value.Len())
}

func TestAbsentAndNull(t *testing.T) {
	checkLeaf(t, Absent(), expectLeaf{mytype: ABSENT})
	checkLeaf(t, Null(), expectLeaf{mytype: NULL})
	checkLeaf(t, Missing, expectLeaf{invalid: true, mytype: ABSENT})
}

func TestBool(t *testing.T) {
	checkLeaf(t, Bool(false), expectLeaf{mytype: BOOL})
	checkLeaf(t, Bool(true), expectLeaf{mytype: BOOL, boolVal: true})
}

func TestNumber(t *testing.T) {
	checkLeaf(t, Number(1.5), expectLeaf{mytype: NUMBER, longVal: 1, doubleVal: 1.5})
	checkLeaf(t, Number(-1), expectLeaf{mytype: NUMBER, longVal: -1, doubleVal: -1, integer: true})
	checkLeaf(t, Number(1), expectLeaf{mytype: NUMBER, longVal: 1, doubleVal: 1, integer: true})
	checkLeaf(t, Number(0), expectLeaf{mytype: NUMBER, integer: true})
	checkLeaf(t, Integer(7), expectLeaf{mytype: NUMBER, longVal: 7, doubleVal: 7, integer: true})
}

func TestNumberSafeIntegerBoundary(t *testing.T) {
	const limit = 9007199254740992
	checkLeaf(t, Number(limit), expectLeaf{mytype: NUMBER, longVal: limit, doubleVal: limit, integer: true})
	checkLeaf(t, Number(-limit), expectLeaf{mytype: NUMBER, longVal: -limit, doubleVal: -limit, integer: true})
	checkLeaf(t, Integer(limit), expectLeaf{mytype: NUMBER, longVal: limit, doubleVal: limit, integer: true})

	above := Number(limit * 2)
	assert.False(t, above.IsInteger())
	assert.Equal(t, float64(limit*2), above.AsDouble())

	beyond := Integer(limit + 1)
	assert.False(t, beyond.IsInteger())
	assert.Equal(t, float64(limit), beyond.AsDouble(), "nearest double of 2^53+1")
}

func TestNumberSpecialDoubles(t *testing.T) {
	negZero := Number(math.Copysign(0, -1))
	assert.False(t, negZero.IsInteger())
	assert.True(t, math.Signbit(negZero.AsDouble()))

	nan := Number(math.NaN())
	assert.False(t, nan.IsInteger())
	assert.True(t, math.IsNaN(nan.AsDouble()))

	inf := Number(math.Inf(1))
	assert.False(t, inf.IsInteger())
	assert.True(t, math.IsInf(inf.AsDouble(), 1))
}

func TestStringStoragePaths(t *testing.T) {
	below := strings.Repeat("x", ShortStringMax)
	above := strings.Repeat("x", ShortStringMax+1)

	checkLeaf(t, String(below), expectLeaf{mytype: STRING, stringVal: below})
	checkLeaf(t, String(above), expectLeaf{mytype: STRING, stringVal: above})
	assert.True(t, IsShort(String(below)))
	assert.False(t, IsShort(String(above)))

	assert.True(t, IsShort(String("")))
	assert.True(t, IsShort(String("short")))
	long := "long long long long long long long long long long long string"
	assert.False(t, IsShort(String(long)))
	assert.Equal(t, long, String(long).AsString())
}

func TestStringUnicode(t *testing.T) {
	s := "héllo" // 6 bytes
	assert.True(t, IsShort(String(s)))
	assert.Equal(t, s, String(s).AsString())
	s = "日本語" // 9 bytes
	assert.False(t, IsShort(String(s)))
	assert.Equal(t, s, String(s).AsString())
}

func TestType(t *testing.T) {
	assert.Equal(t, "absent", ABSENT.String())
	assert.Equal(t, "record", RECORD.String())
	assert.Equal(t, "unknown", Type(42).String())
	assert.False(t, STRING.IsAggregate())
	assert.True(t, SET.IsAggregate())
}
