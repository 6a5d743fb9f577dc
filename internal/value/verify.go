// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package value

import "fmt"

// Verify checks the structural invariants of value: no Missing stored anywhere,
// distinct set members, distinct map keys and distinct record names. A failure
// means the code that built the value is broken.
func Verify(value Value) error {
	return verify(NewPath(), value)
}

func verify(path *Path, value Value) error {
	if !value.Valid() {
		return fmt.Errorf("invalid value stored at %q", path.String())
	}
	var err error
	check := func(f func() error) {
		if err == nil {
			err = f()
		}
	}
	switch value.Type() {
	case ARRAY:
		value.EachEntry(func(idx int, v Value) {
			check(func() error { return verify(path.Clone().Entry(idx), v) })
		})
	case SET:
		seen := NewSet()
		value.EachEntry(func(idx int, v Value) {
			check(func() error {
				if err := verify(path.Clone().Entry(idx), v); err != nil {
					return err
				}
				if !seen.Add(v) {
					return fmt.Errorf("duplicate set member %s at %q", ToString(v), path.String())
				}
				return nil
			})
		})
	case MAP:
		seen := NewSet()
		value.EachPair(func(k, v Value) {
			check(func() error {
				if err := verify(path.Clone(), k); err != nil {
					return err
				}
				if !seen.Add(k) {
					return fmt.Errorf("duplicate map key %s at %q", ToString(k), path.String())
				}
				return verify(path.Clone().Key(k), v)
			})
		})
	case RECORD:
		seen := make(map[string]bool)
		value.EachField(func(name string, v Value) {
			check(func() error {
				if seen[name] {
					return fmt.Errorf("duplicate field %q at %q", name, path.String())
				}
				seen[name] = true
				return verify(path.Clone().Field(name), v)
			})
		})
	}
	return err
}
