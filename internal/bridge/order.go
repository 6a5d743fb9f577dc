// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package bridge

import (
	"cmp"
	"strings"

	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

func rank(t value.Type) int {
	switch t {
	case value.NUMBER:
		return 0
	case value.STRING:
		return 1
	}
	return 2 + int(t)
}

// compareKeys orders map keys: numbers numerically, then strings, then the
// remaining types by type and rendered form.
func compareKeys(a, b value.Value) int {
	if r := cmp.Compare(rank(a.Type()), rank(b.Type())); r != 0 {
		return r
	}
	switch a.Type() {
	case value.NUMBER:
		return cmp.Compare(a.AsDouble(), b.AsDouble())
	case value.STRING:
		return strings.Compare(a.AsString(), b.AsString())
	case value.BOOL:
		return cmp.Compare(boolRank(a.AsBool()), boolRank(b.AsBool()))
	}
	return strings.Compare(value.ToString(a), value.ToString(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
