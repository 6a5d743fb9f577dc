// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package fixture

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
)

// decodeJSON streams tokens so that object members keep their order. Duplicate
// member names are rejected by the decoder.
func decodeJSON(r io.Reader) (any, error) {
	dec := jsontext.NewDecoder(r)
	v, err := readJSON(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func readJSON(dec *jsontext.Decoder) (any, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 'f', 't':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	case '0':
		return jsonNumber(tok.String())
	case '[':
		items := []any{}
		for dec.PeekKind() != ']' {
			item, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		fields := bridge.Fields{}
		for dec.PeekKind() != '}' {
			tok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			// tokens are voided by the next read
			name := tok.String()
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			fields = append(fields, bridge.Field{Name: name, Value: v})
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return undefinedOrFields(fields), nil
	}
	return nil, fmt.Errorf("unexpected token %s at offset %d", tok.Kind(), dec.InputOffset())
}

// jsonNumber keeps integers exact where int64 allows it. Negative zero stays a
// float.
func jsonNumber(literal string) (any, error) {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil && literal != "-0" {
		return i, nil
	}
	return strconv.ParseFloat(literal, 64)
}
