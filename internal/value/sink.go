// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

// Sink receives a value as a depth-first stream of events. Aggregates are
// opened with Array, Set, Map or Record and closed with End. Record fields are
// announced with Field before their value; map entries arrive as key, then value.
type Sink interface {
	Absent()
	Null()
	Bool(v bool)
	Integer(v int64)
	Double(v float64)
	String(v string)
	Array()
	Set()
	Map()
	Record()
	Field(name string)
	End()
}

// Emit streams value into sink.
func Emit(value Value, sink Sink) {
	switch value.Type() {
	case ABSENT:
		sink.Absent()
	case NULL:
		sink.Null()
	case BOOL:
		sink.Bool(value.AsBool())
	case NUMBER:
		if value.IsInteger() {
			sink.Integer(value.AsLong())
		} else {
			sink.Double(value.AsDouble())
		}
	case STRING:
		sink.String(value.AsString())
	case ARRAY:
		sink.Array()
		value.EachEntry(func(_ int, v Value) { Emit(v, sink) })
		sink.End()
	case SET:
		sink.Set()
		value.EachEntry(func(_ int, v Value) { Emit(v, sink) })
		sink.End()
	case MAP:
		sink.Map()
		value.EachPair(func(k, v Value) {
			Emit(k, sink)
			Emit(v, sink)
		})
		sink.End()
	case RECORD:
		sink.Record()
		value.EachField(func(name string, v Value) {
			sink.Field(name)
			Emit(v, sink)
		})
		sink.End()
	}
}
