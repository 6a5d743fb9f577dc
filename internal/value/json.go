// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var hex = []byte("0123456789ABCDEF")

// ToJSON renders value in a JSON-like debug form. Absent prints as undefined,
// sets as Set[...] and maps as Map{key => value}. It is meant for people, not
// for reading back.
func ToJSON(value Value, compact bool) string {
	var out strings.Builder
	if err := EncodeJSON(value, compact, &out); err != nil {
		panic("error writing to string builder")
	}
	return out.String()
}

func EncodeJSON(value Value, compact bool, output io.Writer) error {
	encoder := &jsonEncoder{output: output, compact: compact, first: true}
	encoder.encode(value)
	return encoder.err
}

type jsonEncoder struct {
	output  io.Writer
	compact bool
	level   int
	first   bool
	err     error
}

func (e *jsonEncoder) fmt(format string, stuff ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.output, format, stuff...)
	}
}

func (e *jsonEncoder) put(value byte) {
	if e.err == nil {
		_, e.err = e.output.Write([]byte{value})
	}
}

func (e *jsonEncoder) openScope(prefix string, tag byte) {
	e.fmt("%s", prefix)
	e.put(tag)
	e.level++
	e.first = true
}

func (e *jsonEncoder) separate(useComma bool) {
	if !e.first && useComma {
		e.put(byte(','))
	} else {
		e.first = false
	}
	if !e.compact {
		e.fmt("\n%*s", e.level*4, "")
	}
}

func (e *jsonEncoder) closeScope(tag byte) {
	e.level--
	if !e.first {
		e.separate(false)
	}
	e.first = false
	e.put(tag)
}

func (e *jsonEncoder) encode(value Value) {
	e.encodeValue(value)
	if !e.compact {
		e.put(byte('\n'))
	}
}

func (e *jsonEncoder) encodeValue(value Value) {
	switch value.Type() {
	case ABSENT:
		e.fmt("undefined")
	case NULL:
		e.fmt("null")
	case BOOL:
		e.fmt("%t", value.AsBool())
	case NUMBER:
		if value.IsInteger() {
			e.fmt("%d", value.AsLong())
		} else {
			e.encodeDouble(value.AsDouble())
		}
	case STRING:
		e.encodeString(value.AsString())
	case ARRAY:
		e.encodeEntries("", '[', ']', value)
	case SET:
		e.encodeEntries("Set", '[', ']', value)
	case MAP:
		e.encodeMap(value)
	case RECORD:
		e.encodeRecord(value)
	}
}

func (e *jsonEncoder) encodeDouble(value float64) {
	switch {
	case math.IsNaN(value):
		e.fmt("NaN")
	case math.IsInf(value, 1):
		e.fmt("Infinity")
	case math.IsInf(value, -1):
		e.fmt("-Infinity")
	case value == 0 && math.Signbit(value):
		e.fmt("-0")
	default:
		e.fmt("%s", strconv.FormatFloat(value, 'g', -1, 64))
	}
}

func (e *jsonEncoder) encodeString(value string) {
	e.put(byte('"'))
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '"':
			e.fmt("\\\"")
		case '\\':
			e.fmt("\\\\")
		case '\b':
			e.fmt("\\b")
		case '\f':
			e.fmt("\\f")
		case '\n':
			e.fmt("\\n")
		case '\r':
			e.fmt("\\r")
		case '\t':
			e.fmt("\\t")
		default:
			if c > 0x1f {
				e.put(c)
			} else {
				e.fmt("\\u00")
				e.put(hex[(c>>4)&0xf])
				e.put(hex[c&0xf])
			}
		}
	}
	e.put(byte('"'))
}

func (e *jsonEncoder) encodeEntries(prefix string, open, close byte, value Value) {
	e.openScope(prefix, open)
	value.EachEntry(func(idx int, val Value) {
		e.separate(true)
		e.encodeValue(val)
	})
	e.closeScope(close)
}

func (e *jsonEncoder) colon(sep string) {
	if e.compact {
		e.fmt("%s", strings.TrimSpace(sep))
	} else {
		e.fmt("%s", sep)
	}
}

func (e *jsonEncoder) encodeMap(value Value) {
	e.openScope("Map", '{')
	value.EachPair(func(k, v Value) {
		e.separate(true)
		e.encodeValue(k)
		e.colon(" => ")
		e.encodeValue(v)
	})
	e.closeScope('}')
}

func (e *jsonEncoder) encodeRecord(value Value) {
	e.openScope("", '{')
	value.EachField(func(name string, val Value) {
		e.separate(true)
		e.encodeString(name)
		e.colon(": ")
		e.encodeValue(val)
	})
	e.closeScope('}')
}
