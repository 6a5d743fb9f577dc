// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package jsrt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja/file"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/trace"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

// ChecksModule is the module name of the built in checks, e.g.
// require('bridge:checks').check_obj(x).
const ChecksModule = "bridge:checks"

//go:embed checks.js
var checksSource string

var checksProgram = goja.MustCompile("checks.js", "(function (exports, module) {"+checksSource+"\n})", false)

// Checks lists the built in check functions.
var Checks = []string{"check_obj", "check_arr", "check_set", "check_map"}

func loadChecks(vm *goja.Runtime, module *goja.Object) {
	wrapper, err := vm.RunProgram(checksProgram)
	if err != nil {
		panic(vm.NewGoError(err))
	}
	fn, _ := goja.AssertFunction(wrapper)
	if _, err := fn(goja.Undefined(), module.Get("exports"), module); err != nil {
		panic(vm.NewGoError(err))
	}
}

// CheckError is a check that ran and rejected its argument.
type CheckError struct {
	Function string
	Message  string
	// Location is the innermost script position on the stack when the check
	// threw. It is invalid (Line 0) when only native code was running.
	Location file.Position
	Stack    []string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Function, e.Message)
}

// InterruptedError is a check stopped by Interrupt before it returned.
type InterruptedError struct {
	Function string
	Reason   any
	err      *goja.InterruptedError
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("%s interrupted: %v", e.Function, e.Reason)
}

func (e *InterruptedError) Unwrap() error { return e.err }

// Check hands v to the named check function. A check that throws yields a
// *CheckError and a check stopped by Interrupt yields an *InterruptedError.
// Failing to run the check at all yields any other error.
func (r *Runtime) Check(name string, v value.Value) error {
	trace.Debug("running", name, "on", value.ToString(v))
	_, err := r.Call(name, v)
	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &InterruptedError{Function: name, Reason: interrupted.Value(), err: interrupted}
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		frames := exception.Stack()
		return &CheckError{
			Function: name,
			Message:  exceptionMessage(exception),
			Location: innermost(frames),
			Stack:    stackLines(frames),
		}
	}
	return fmt.Errorf("could not run %s: %w", name, err)
}

func exceptionMessage(e *goja.Exception) string {
	thrown := e.Value()
	if obj, ok := thrown.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return msg.String()
		}
	}
	if thrown == nil {
		return e.Error()
	}
	return thrown.String()
}

func innermost(frames []goja.StackFrame) file.Position {
	for i := range frames {
		if pos := frames[i].Position(); pos.Line > 0 {
			return pos
		}
	}
	return file.Position{}
}

func stackLines(frames []goja.StackFrame) []string {
	lines := make([]string, 0, len(frames))
	for i := range frames {
		var buf bytes.Buffer
		frames[i].Write(&buf)
		lines = append(lines, buf.String())
	}
	return lines
}
