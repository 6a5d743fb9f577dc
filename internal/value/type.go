// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

type Type byte

const (
	ABSENT Type = iota
	NULL
	BOOL
	NUMBER
	STRING
	ARRAY
	SET
	MAP
	RECORD
)

var typeNames = [...]string{
	ABSENT: "absent",
	NULL:   "null",
	BOOL:   "bool",
	NUMBER: "number",
	STRING: "string",
	ARRAY:  "array",
	SET:    "set",
	MAP:    "map",
	RECORD: "record",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsAggregate returns true for the types that own other values.
func (t Type) IsAggregate() bool {
	return t >= ARRAY
}
