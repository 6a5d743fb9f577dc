// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package fixture

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
)

// cborDecMode keeps non-string map keys and rejects duplicate keys.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[any]any(nil)),
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("failed to initialize CBOR decoder mode: " + err.Error())
	}
}

const (
	cborUndefined = 0xf7
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
)

func decodeCBOR(r io.Reader) (any, error) {
	var raw cbor.RawMessage
	if err := cborDecMode.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	return fromCBOR(raw)
}

// fromCBOR walks raw items so that undefined (simple value 23) stays distinct
// from null. Maps with only string keys become records, sorted by name since
// the decoder does not keep the encoded order. Other maps are left to the
// bridge, which orders their keys.
func fromCBOR(raw cbor.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty CBOR item")
	}
	if raw[0] == cborUndefined {
		return bridge.Undefined, nil
	}
	switch raw[0] >> 5 {
	case majorArray:
		var items []cbor.RawMessage
		if err := cborDecMode.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		converted := make([]any, len(items))
		for i, item := range items {
			var err error
			if converted[i], err = fromCBOR(item); err != nil {
				return nil, err
			}
		}
		return converted, nil
	case majorMap:
		var entries map[any]cbor.RawMessage
		if err := cborDecMode.Unmarshal(raw, &entries); err != nil {
			return nil, err
		}
		return cborMap(entries)
	case majorTag:
		var tag cbor.RawTag
		if err := cborDecMode.Unmarshal(raw, &tag); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unsupported CBOR tag %d", tag.Number)
	}
	var v any
	if err := cborDecMode.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func cborMap(entries map[any]cbor.RawMessage) (any, error) {
	converted := make(map[any]any, len(entries))
	stringKeys := true
	for k, item := range entries {
		if _, ok := k.(string); !ok {
			stringKeys = false
		}
		v, err := fromCBOR(item)
		if err != nil {
			return nil, err
		}
		converted[k] = v
	}
	if !stringKeys {
		return converted, nil
	}
	fields := make(bridge.Fields, 0, len(converted))
	for k, v := range converted {
		fields = append(fields, bridge.Field{Name: k.(string), Value: v})
	}
	slices.SortFunc(fields, func(a, b bridge.Field) int { return cmp.Compare(a.Name, b.Name) })
	return undefinedOrFields(fields), nil
}
