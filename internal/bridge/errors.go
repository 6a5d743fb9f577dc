// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package bridge

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// UnsupportedType means a host value has no bridged form.
	UnsupportedType Kind = iota + 1
	// ContractViolation means a converted value broke an invariant of the value
	// model. It indicates a defect, not bad input.
	ContractViolation
)

var (
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrContractViolation = errors.New("contract violation")
)

func (k Kind) String() string {
	switch k {
	case UnsupportedType:
		return "unsupported type"
	case ContractViolation:
		return "contract violation"
	}
	return "unknown"
}

// Error is returned by every conversion in this package. Path locates the
// offending value below the converted root, e.g. .inner.c or .tags[2].
type Error struct {
	Kind Kind
	Path string
	Type string
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case UnsupportedType:
		msg = "unsupported type " + e.Type
	default:
		msg = e.Kind.String()
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnsupportedType:
		return e.Kind == UnsupportedType
	case ErrContractViolation:
		return e.Kind == ContractViolation
	}
	return false
}
